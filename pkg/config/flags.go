// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

// flagKeys maps entries of utils.PlatformServerFlagConstants to viper keys
var flagKeys = map[string]string{
	"Hostname":         "host",
	"Port":             "port",
	"RootDir":          "root_dir",
	"Cert":             "tls.cert_file",
	"CertKey":          "tls.key_file",
	"Static":           "static_dir",
	"RobotsFile":       "robots_file",
	"Middleware":       "middleware",
	"CacheControlGlob": "cache_control.globs",
	"CacheControlRule": "cache_control.rule",
	"ConfigFile":       "config_file",
	"ShutdownTimeout":  "shutdown_timeout",
	"OutputLog":        "log.output_log",
	"AccessLog":        "log.access_log",
	"ErrorLog":         "log.error_log",
	"Debug":            "debug",
	"NoBanner":         "no_banner",
	"Prometheus":       "enable_prometheus",
}

func flagName(key string) string {
	return utils.PlatformServerFlagConstants[key]["FlagName"]
}

func shortFlag(key string) string {
	return utils.PlatformServerFlagConstants[key]["ShortFlag"]
}

func usage(key string) string {
	return utils.PlatformServerFlagConstants[key]["Description"]
}

// RegisterFlags declares every start-server flag on flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP(flagName("Hostname"), shortFlag("Hostname"), "localhost", usage("Hostname"))
	flags.IntP(flagName("Port"), shortFlag("Port"), 30080, usage("Port"))
	flags.StringP(flagName("RootDir"), shortFlag("RootDir"), "", usage("RootDir"))
	flags.String(flagName("Cert"), "", usage("Cert"))
	flags.String(flagName("CertKey"), "", usage("CertKey"))
	flags.StringSliceP(flagName("Static"), shortFlag("Static"), []string{}, usage("Static"))
	flags.String(flagName("RobotsFile"), "robots.txt", usage("RobotsFile"))
	flags.StringSliceP(flagName("Middleware"), shortFlag("Middleware"),
		[]string{middleware.SecurityHeadersMiddlewareName}, usage("Middleware"))
	flags.StringSlice(flagName("CacheControlGlob"), []string{}, usage("CacheControlGlob"))
	flags.String(flagName("CacheControlRule"), "no-cache", usage("CacheControlRule"))
	flags.String(flagName("ConfigFile"), "", usage("ConfigFile"))
	flags.Duration(flagName("ShutdownTimeout"), time.Minute, usage("ShutdownTimeout"))
	flags.StringP(flagName("OutputLog"), shortFlag("OutputLog"), "stdout", usage("OutputLog"))
	flags.StringP(flagName("AccessLog"), shortFlag("AccessLog"), "stdout", usage("AccessLog"))
	flags.StringP(flagName("ErrorLog"), shortFlag("ErrorLog"), "stderr", usage("ErrorLog"))
	flags.BoolP(flagName("Debug"), shortFlag("Debug"), false, usage("Debug"))
	flags.BoolP(flagName("NoBanner"), shortFlag("NoBanner"), false, usage("NoBanner"))
	flags.Bool(flagName("Prometheus"), false, usage("Prometheus"))
}

// BindFlags makes every flag registered by RegisterFlags override the matching viper key when set
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for constKey, viperKey := range flagKeys {
		f := flags.Lookup(flagName(constKey))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(viperKey, f); err != nil {
			return err
		}
	}
	return nil
}
