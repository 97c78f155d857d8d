// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/gorilla/mux"
	"github.com/vmware/headerguard/utils"
)

const CacheControlMiddlewareName = "cache-control"

// CacheControlDirective accumulates Cache-Control directives
type CacheControlDirective struct {
	directives []string
}

func NewCacheControlDirective() *CacheControlDirective {
	return &CacheControlDirective{}
}

// ParseCacheControlDirective splits a literal header value such as "public, max-age=3600" into directives
func ParseCacheControlDirective(rule string) *CacheControlDirective {
	c := NewCacheControlDirective()
	for _, d := range strings.Split(rule, ",") {
		if d = strings.TrimSpace(d); d != "" {
			c.directives = append(c.directives, d)
		}
	}
	return c
}

func (c *CacheControlDirective) Public() *CacheControlDirective {
	return c.add("public")
}

func (c *CacheControlDirective) Private() *CacheControlDirective {
	return c.add("private")
}

func (c *CacheControlDirective) NoCache() *CacheControlDirective {
	return c.add("no-cache")
}

func (c *CacheControlDirective) NoStore() *CacheControlDirective {
	return c.add("no-store")
}

func (c *CacheControlDirective) MaxAge(t time.Duration) *CacheControlDirective {
	return c.add(fmt.Sprintf("max-age=%d", int64(t.Seconds())))
}

func (c *CacheControlDirective) SharedMaxAge(t time.Duration) *CacheControlDirective {
	return c.add(fmt.Sprintf("s-maxage=%d", int64(t.Seconds())))
}

func (c *CacheControlDirective) MaxStale(t time.Duration) *CacheControlDirective {
	return c.add(fmt.Sprintf("max-stale=%d", int64(t.Seconds())))
}

func (c *CacheControlDirective) MinFresh(t time.Duration) *CacheControlDirective {
	return c.add(fmt.Sprintf("min-fresh=%d", int64(t.Seconds())))
}

func (c *CacheControlDirective) MustRevalidate() *CacheControlDirective {
	return c.add("must-revalidate")
}

func (c *CacheControlDirective) ProxyRevalidate() *CacheControlDirective {
	return c.add("proxy-revalidate")
}

func (c *CacheControlDirective) Immutable() *CacheControlDirective {
	return c.add("immutable")
}

func (c *CacheControlDirective) NoTransform() *CacheControlDirective {
	return c.add("no-transform")
}

func (c *CacheControlDirective) OnlyIfCached() *CacheControlDirective {
	return c.add("only-if-cached")
}

func (c *CacheControlDirective) String() string {
	return strings.Join(c.directives, ", ")
}

func (c *CacheControlDirective) add(d string) *CacheControlDirective {
	c.directives = append(c.directives, d)
	return c
}

// CacheControlMiddleware sets Cache-Control to directive for request paths matching one of globPatterns.
// see https://github.com/gobwas/glob for the pattern syntax. invalid patterns are logged and skipped.
func CacheControlMiddleware(globPatterns []string, directive *CacheControlDirective) mux.MiddlewareFunc {
	parsed := parseGlobPatterns(globPatterns)
	return func(handler http.Handler) http.Handler {
		return cacheControlWrapper(handler, parsed, directive)
	}
}

// NewCacheControlMiddleware is CacheControlMiddleware registered under CacheControlMiddlewareName
func NewCacheControlMiddleware(globPatterns []string, directive *CacheControlDirective) Middleware {
	return NewMiddleware(CacheControlMiddlewareName, CacheControlMiddleware(globPatterns, directive))
}

func parseGlobPatterns(globPatterns []string) []glob.Glob {
	results := make([]glob.Glob, 0, len(globPatterns))
	for _, exp := range globPatterns {
		g, err := glob.Compile(exp, '/')
		if err != nil {
			utils.Log.Warnln("Ignoring invalid glob pattern provided as cache control matcher rule", err)
			continue
		}
		results = append(results, g)
	}
	return results
}

func cacheControlWrapper(h http.Handler, globs []glob.Glob, directive *CacheControlDirective) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, g := range globs {
			if g.Match(r.URL.Path) {
				w.Header().Set("Cache-Control", directive.String())
				break
			}
		}
		h.ServeHTTP(w, r)
	})
}
