// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import "net/http"

// SecurityHeadersMiddlewareName is the registry name of the security header interceptor
const SecurityHeadersMiddlewareName = "security-headers"

// HeaderPair is a response header name and the literal value enforced for it
type HeaderPair struct {
	Name  string
	Value string
}

var securityHeaderPairs = [...]HeaderPair{
	{Name: "X-Content-Type-Options", Value: "nosniff"},
	{Name: "X-Frame-Options", Value: "DENY"},
	{Name: "X-XSS-Protection", Value: "1; mode=block"},
	{Name: "Content-Security-Policy", Value: "default-src 'self'"},
	{Name: "Referrer-Policy", Value: "no-referrer"},
}

// SecurityHeaderPairs returns a copy of the enforced headers in the order they are applied
func SecurityHeaderPairs() []HeaderPair {
	pairs := make([]HeaderPair, len(securityHeaderPairs))
	copy(pairs, securityHeaderPairs[:])
	return pairs
}

// AddSecurityHeaders overwrites the five security headers on h and returns it. any other entry of h
// is left as it is. applying it more than once has no further effect.
func AddSecurityHeaders(h http.Header) http.Header {
	for _, p := range securityHeaderPairs {
		h.Set(p.Name, p.Value)
	}
	return h
}

// SecurityHeaders wraps next so that every response it produces carries the security headers.
// the values are re-applied right before the status line is sent, which means a value the wrapped
// handler set for one of the five headers never reaches the client.
func SecurityHeaders(next http.Handler) http.Handler {
	return securityHeadersHandler(next, nil)
}

type securityHeadersMiddleware struct {
	name     string
	onCommit func(status int)
}

// NewSecurityHeadersMiddleware returns the security header interceptor as a named Middleware.
// Intercept behaves exactly like SecurityHeaders.
func NewSecurityHeadersMiddleware() Middleware {
	return NewObservedSecurityHeadersMiddleware(nil)
}

// NewObservedSecurityHeadersMiddleware is NewSecurityHeadersMiddleware with a callback that runs once
// per response, after the headers were applied, with the status code being sent.
func NewObservedSecurityHeadersMiddleware(onCommit func(status int)) Middleware {
	return &securityHeadersMiddleware{
		name:     SecurityHeadersMiddlewareName,
		onCommit: onCommit,
	}
}

func (m *securityHeadersMiddleware) Name() string {
	return m.name
}

func (m *securityHeadersMiddleware) Intercept(h http.Handler) http.Handler {
	return securityHeadersHandler(h, m.onCommit)
}

func securityHeadersHandler(next http.Handler, onCommit func(status int)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// visible to the wrapped handler as well
		AddSecurityHeaders(w.Header())

		gw := newHeaderGuardWriter(w, AddSecurityHeaders, onCommit)
		next.ServeHTTP(gw, r)
		gw.finish()
	})
}
