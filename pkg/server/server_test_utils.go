// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"net"
	"testing"
	"time"

	"github.com/vmware/headerguard/pkg/config"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

func getBasicTestServerConfig(rootDir string, port int) *config.ServerConfig {
	return &config.ServerConfig{
		RootDir:    rootDir,
		Host:       "localhost",
		Port:       port,
		Middleware: []string{middleware.SecurityHeadersMiddlewareName},
		RobotsFile: "robots.txt",
		LogConfig: utils.LogConfig{
			OutputLog: "null",
			AccessLog: "null",
			ErrorLog:  "null",
		},
		NoBanner:        true,
		ShutdownTimeout: 5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
	}
}

func getTestPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("could not assign a port for tests: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
