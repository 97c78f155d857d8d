// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var winAbsolutePathPrefix = regexp.MustCompile(`^[A-Za-z]:`)

// IsAbsolutePath returns if path is an absolute path in *nix and Windows file systems
func IsAbsolutePath(p string) bool {
	return path.IsAbs(p) || winAbsolutePathPrefix.MatchString(p)
}

// DeriveStaticURIFromPath takes a file system path with an optional alias and returns the path
// and the URI it should be served at. see the following examples:
//
// 1. folder => /folder
// 2. /folder => /folder
// 3. folder:my-folder => /my-folder
// 4. folder:/my-folder => /my-folder
// 5. nested/project => /project
// 6. nested/project:my-project => /my-project
func DeriveStaticURIFromPath(input string) (string, string) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return input, "/"
	}

	split := strings.SplitN(input, ":", 2)
	p, uri := split[0], filepath.Base(split[0])
	if len(split) > 1 {
		uri = split[1]
	}
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return p, uri
}

// JoinBasePathIfRelativeRegularFilePath joins base and in unless in is absolute or one of the
// reserved log targets (stdout, stderr, null)
func JoinBasePathIfRelativeRegularFilePath(base string, in string) string {
	switch in {
	case "", "stdout", "stderr", "null":
		return in
	}
	if IsAbsolutePath(in) {
		return in
	}
	return filepath.Join(base, in)
}
