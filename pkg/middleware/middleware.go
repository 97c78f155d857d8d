// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Middleware is a named unit of the request pipeline
type Middleware interface {
	Intercept(h http.Handler) http.Handler
	Name() string
}

type funcMiddleware struct {
	name string
	fn   mux.MiddlewareFunc
}

// NewMiddleware turns a mux.MiddlewareFunc into a named Middleware
func NewMiddleware(name string, fn mux.MiddlewareFunc) Middleware {
	return &funcMiddleware{name: name, fn: fn}
}

func (m *funcMiddleware) Name() string {
	return m.name
}

func (m *funcMiddleware) Intercept(h http.Handler) http.Handler {
	return m.fn(h)
}

// MuxMiddlewareFunc adapts m so it can be passed to mux.Router.Use
func MuxMiddlewareFunc(m Middleware) mux.MiddlewareFunc {
	return m.Intercept
}

// BuildChain wraps final with middleware. the first element ends up outermost, so it sees the
// request first and the response last.
func BuildChain(middleware []Middleware, final http.Handler) http.Handler {
	h := final
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		h = middleware[idx].Intercept(h)
	}
	return h
}
