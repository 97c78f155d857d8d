// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

// PlatformServerFlagConstants names every command line flag understood by start-server
var PlatformServerFlagConstants = map[string]map[string]string{
	"Hostname": {
		"FlagName":    "hostname",
		"ShortFlag":   "n",
		"Description": "Hostname where the server accepts connections",
	},
	"Port": {
		"FlagName":    "port",
		"ShortFlag":   "p",
		"Description": "Port where the server is to be served",
	},
	"RootDir": {
		"FlagName":    "rootdir",
		"ShortFlag":   "r",
		"Description": "Root directory for the server (default: Current directory)",
	},
	"Cert": {
		"FlagName":    "cert",
		"Description": "X509 Certificate file for TLS",
	},
	"CertKey": {
		"FlagName":    "cert-key",
		"Description": "X509 Certificate private Key file for TLS",
	},
	"Static": {
		"FlagName":    "static",
		"ShortFlag":   "s",
		"Description": "Path(s) where static files will be served. A URI other than the leaf directory can be given after a colon (e.g. --static ./public:assets)",
	},
	"RobotsFile": {
		"FlagName":    "robots-file",
		"Description": "Path to the file served at /robots.txt",
	},
	"Middleware": {
		"FlagName":    "middleware",
		"ShortFlag":   "m",
		"Description": "Ordered list of middleware to install. security-headers is always installed first",
	},
	"CacheControlGlob": {
		"FlagName":    "cache-control-glob",
		"Description": "Glob pattern(s) of request paths the cache-control middleware applies to",
	},
	"CacheControlRule": {
		"FlagName":    "cache-control-rule",
		"Description": "Cache-Control header value for paths matching --cache-control-glob",
	},
	"ConfigFile": {
		"FlagName":    "config-file",
		"Description": "Path to the server config file (JSON, YAML or TOML)",
	},
	"ShutdownTimeout": {
		"FlagName":    "shutdown-timeout",
		"Description": "Graceful server shutdown timeout",
	},
	"OutputLog": {
		"FlagName":    "output-log",
		"ShortFlag":   "l",
		"Description": "Platform log output",
	},
	"AccessLog": {
		"FlagName":    "access-log",
		"ShortFlag":   "a",
		"Description": "HTTP server access log output",
	},
	"ErrorLog": {
		"FlagName":    "error-log",
		"ShortFlag":   "e",
		"Description": "HTTP server error log output",
	},
	"Debug": {
		"FlagName":    "debug",
		"ShortFlag":   "d",
		"Description": "Enable debug logging",
	},
	"NoBanner": {
		"FlagName":    "no-banner",
		"ShortFlag":   "b",
		"Description": "Do not print the banner at startup",
	},
	"Prometheus": {
		"FlagName":    "prometheus",
		"Description": "Enable Prometheus for basic runtime metrics",
	},
}
