// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/vmware/headerguard/pkg/metrics"
)

const MetricsMiddlewareName = "metrics"

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// route groups used when a request has no named route
const (
	UnmatchedRouteGroup = "unmatched"
	UnnamedRouteGroup   = "unnamed"
	FallbackRouteGroup  = "fallback"
)

// RouteGroupFunc returns the label a request is counted under. it must only return values from a
// bounded set, never raw request data.
type RouteGroupFunc func(r *http.Request) string

// MuxRouteGroup labels a request with the name of the router route that will serve it. requests handled by
// the router's NotFoundHandler are counted as FallbackRouteGroup and requests no route matches as
// UnmatchedRouteGroup.
func MuxRouteGroup(router *mux.Router) RouteGroupFunc {
	return func(r *http.Request) string {
		var match mux.RouteMatch
		if !router.Match(r, &match) {
			return UnmatchedRouteGroup
		}
		if match.Route == nil {
			if errors.Is(match.MatchErr, mux.ErrNotFound) {
				return FallbackRouteGroup
			}
			return UnmatchedRouteGroup
		}
		if name := match.Route.GetName(); name != "" {
			return name
		}
		return UnnamedRouteGroup
	}
}

// PrometheusMetricsMiddleware counts requests by route group and response status code. a nil group
// function counts every request as UnmatchedRouteGroup.
func PrometheusMetricsMiddleware(group RouteGroupFunc) Middleware {
	if group == nil {
		group = func(*http.Request) string { return UnmatchedRouteGroup }
	}
	return NewMiddleware(MetricsMiddlewareName, func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// resolved before the router strips or rewrites anything
			g := group(r)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			handler.ServeHTTP(rec, r)
			metrics.RequestCounter.WithLabelValues(g, strconv.Itoa(rec.status)).Inc()
		})
	})
}
