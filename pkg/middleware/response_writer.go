// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"bufio"
	"net"
	"net/http"
)

// headerGuardWriter applies a header transform at the last moment the header map can still change:
// right before the wrapped writer commits the status line.
type headerGuardWriter struct {
	http.ResponseWriter
	apply     func(http.Header) http.Header
	onCommit  func(status int)
	committed bool
}

func newHeaderGuardWriter(w http.ResponseWriter, apply func(http.Header) http.Header, onCommit func(status int)) *headerGuardWriter {
	return &headerGuardWriter{
		ResponseWriter: w,
		apply:          apply,
		onCommit:       onCommit,
	}
}

func (w *headerGuardWriter) commit(status int) {
	if w.committed {
		return
	}
	w.committed = true
	w.apply(w.ResponseWriter.Header())
	if w.onCommit != nil {
		w.onCommit(status)
	}
}

func (w *headerGuardWriter) WriteHeader(status int) {
	// 1xx other than 101 leaves the response open
	if status >= 100 && status < 200 && status != http.StatusSwitchingProtocols {
		w.apply(w.ResponseWriter.Header())
		w.ResponseWriter.WriteHeader(status)
		return
	}
	w.commit(status)
	w.ResponseWriter.WriteHeader(status)
}

func (w *headerGuardWriter) Write(b []byte) (int, error) {
	w.commit(http.StatusOK)
	return w.ResponseWriter.Write(b)
}

func (w *headerGuardWriter) Flush() {
	w.commit(http.StatusOK)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *headerGuardWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	w.committed = true
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *headerGuardWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// finish covers handlers that returned without writing anything. the server then sends the header
// map as it is with a 200.
func (w *headerGuardWriter) finish() {
	w.commit(http.StatusOK)
}
