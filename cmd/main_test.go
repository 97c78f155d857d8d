// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/headerguard/pkg/config"
	"github.com/vmware/headerguard/pkg/middleware"
)

func executeRootCmd(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPrintHeaders(t *testing.T) {
	// act
	out, err := executeRootCmd("print-headers")

	// assert
	require.NoError(t, err)
	for _, pair := range middleware.SecurityHeaderPairs() {
		assert.Contains(t, out, pair.Name+": ")
		assert.Contains(t, out, pair.Value+"\n")
	}
}

func TestPrintHeaders_RejectsArgs(t *testing.T) {
	_, err := executeRootCmd("print-headers", "extra")

	assert.Error(t, err)
}

func TestStartServer_InvalidPort(t *testing.T) {
	// act
	_, err := executeRootCmd("start-server", "-r", t.TempDir(), "-p", "70000", "-b", "-l", "null", "-a", "null", "-e", "null")

	// assert
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestStartServer_UnknownMiddleware(t *testing.T) {
	// act
	_, err := executeRootCmd("start-server", "-r", t.TempDir(), "-m", "nope", "-b", "-l", "null", "-a", "null", "-e", "null")

	// assert
	assert.True(t, errors.Is(err, middleware.ErrUnknownMiddleware))
}
