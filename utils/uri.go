// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

import (
	"regexp"
	"strings"
)

var protocolRegExp = regexp.MustCompile("^https?://")

// SanitizeUrl collapses repeated forward slashes and pads or strips the trailing slash depending on suffixSlash
func SanitizeUrl(url string, suffixSlash bool) string {
	if len(url) == 0 {
		return ""
	}

	b := strings.Builder{}
	rest := url
	if proto := protocolRegExp.FindString(url); proto != "" {
		b.WriteString(proto)
		rest = url[len(proto):]
	}

	prevSlash := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if prevSlash && c == '/' {
			continue
		}
		prevSlash = c == '/'
		b.WriteByte(c)
	}

	sanitized := b.String()
	if suffixSlash && !strings.HasSuffix(sanitized, "/") {
		sanitized += "/"
	}
	if !suffixSlash {
		sanitized = strings.TrimSuffix(sanitized, "/")
	}
	return sanitized
}
