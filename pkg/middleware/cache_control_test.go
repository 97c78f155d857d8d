// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/headerguard/utils"
)

func TestCacheControlDirective_String(t *testing.T) {
	d := NewCacheControlDirective().
		Public().
		MaxAge(time.Hour).
		SharedMaxAge(2 * time.Minute).
		MustRevalidate().
		Immutable()

	assert.Equal(t, "public, max-age=3600, s-maxage=120, must-revalidate, immutable", d.String())
}

func TestCacheControlDirective_AllDirectives(t *testing.T) {
	d := NewCacheControlDirective().
		Private().
		NoCache().
		NoStore().
		MaxStale(time.Second).
		MinFresh(3 * time.Second).
		ProxyRevalidate().
		NoTransform().
		OnlyIfCached()

	assert.Equal(t,
		"private, no-cache, no-store, max-stale=1, min-fresh=3, proxy-revalidate, no-transform, only-if-cached",
		d.String())
}

func TestParseCacheControlDirective(t *testing.T) {
	assert.Equal(t, "public, max-age=60", ParseCacheControlDirective(" public,max-age=60 ,, ").String())
	assert.Empty(t, ParseCacheControlDirective("").String())
}

func TestCacheControlMiddleware(t *testing.T) {
	// arrange
	calls := 0
	handler := CacheControlMiddleware(
		[]string{"/static/**", "/*.js", "[invalid"},
		NewCacheControlDirective().NoStore())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	cases := map[string]string{
		"/static/css/app.css": "no-store",
		"/main.js":            "no-store",
		"/nested/main.js":     "",
		"/health":             "",
	}

	for path, expected := range cases {
		rec := httptest.NewRecorder()

		// act
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?v=1", nil))

		// assert
		assert.Equal(t, expected, rec.Header().Get("Cache-Control"), path)
	}
	assert.Equal(t, len(cases), calls, "wrapped handler runs exactly once per request")
}

func TestCacheControlMiddleware_NoPatterns(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := CacheControlMiddleware(nil, NewCacheControlDirective().NoStore())(http.NotFoundHandler())

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewCacheControlMiddleware(t *testing.T) {
	mw := NewCacheControlMiddleware([]string{"/**"}, NewCacheControlDirective().NoCache())
	rec := httptest.NewRecorder()

	mw.Intercept(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, CacheControlMiddlewareName, mw.Name())
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestCacheControlMiddleware_InvalidPatternIsWarned(t *testing.T) {
	// arrange
	hook := logtest.NewLocal(utils.Log.Logger)
	defer hook.Reset()

	// act
	globs := parseGlobPatterns([]string{"[invalid", "/*.css"})

	// assert
	assert.Len(t, globs, 1)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "Ignoring invalid glob pattern")
}
