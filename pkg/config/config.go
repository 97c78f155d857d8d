// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

// EnvPrefix makes viper look up HEADERGUARD_PORT, HEADERGUARD_LOG_ACCESS_LOG etc.
const EnvPrefix = "HEADERGUARD"

var ErrInvalidConfig = errors.New("invalid server configuration")

// ServerConfig holds everything the platform server needs to start
type ServerConfig struct {
	RootDir          string             `mapstructure:"root_dir" json:"root_dir"`
	StaticDir        []string           `mapstructure:"static_dir" json:"static_dir"`
	RobotsFile       string             `mapstructure:"robots_file" json:"robots_file"`
	Host             string             `mapstructure:"host" json:"host"`
	Port             int                `mapstructure:"port" json:"port"`
	Middleware       []string           `mapstructure:"middleware" json:"middleware"`
	CacheControl     CacheControlConfig `mapstructure:"cache_control" json:"cache_control"`
	LogConfig        utils.LogConfig    `mapstructure:"log" json:"log"`
	TLSCertConfig    TLSCertConfig      `mapstructure:"tls" json:"tls"`
	EnablePrometheus bool               `mapstructure:"enable_prometheus" json:"enable_prometheus"`
	Debug            bool               `mapstructure:"debug" json:"debug"`
	NoBanner         bool               `mapstructure:"no_banner" json:"no_banner"`
	ShutdownTimeout  time.Duration      `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	ReadTimeout      time.Duration      `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout     time.Duration      `mapstructure:"write_timeout" json:"write_timeout"`
}

// CacheControlConfig feeds the cache-control middleware
type CacheControlConfig struct {
	Globs []string `mapstructure:"globs" json:"globs"`
	Rule  string   `mapstructure:"rule" json:"rule"`
}

// TLSCertConfig wraps around key information for TLS configuration
type TLSCertConfig struct {
	CertFile string `mapstructure:"cert_file" json:"cert_file"`
	KeyFile  string `mapstructure:"key_file" json:"key_file"`
}

// Enabled reports whether both the certificate and the key are configured
func (t TLSCertConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// NewViper returns a viper instance with defaults and environment lookups in place
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("root_dir", "")
	v.SetDefault("static_dir", []string{})
	v.SetDefault("robots_file", "robots.txt")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 30080)
	v.SetDefault("middleware", []string{middleware.SecurityHeadersMiddlewareName})
	v.SetDefault("cache_control.globs", []string{})
	v.SetDefault("cache_control.rule", "no-cache")
	v.SetDefault("log.output_log", "stdout")
	v.SetDefault("log.access_log", "stdout")
	v.SetDefault("log.error_log", "stderr")
	v.SetDefault("log.root", "")
	v.SetDefault("log.format.full_timestamp", false)
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("enable_prometheus", false)
	v.SetDefault("debug", false)
	v.SetDefault("no_banner", false)
	v.SetDefault("shutdown_timeout", "1m")
	v.SetDefault("read_timeout", "60s")
	v.SetDefault("write_timeout", "60s")
}

// Load reads the optional config file named by the config_file key, unmarshals every setting and
// returns a sanitized, validated ServerConfig
func Load(v *viper.Viper) (*ServerConfig, error) {
	if configFile := v.GetString("config_file"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg ServerConfig
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode server configuration: %w", err)
	}

	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sanitize resolves RootDir to an existing absolute path and makes log and TLS paths relative to it.
// it is safe to call more than once.
func (c *ServerConfig) Sanitize() error {
	if len(c.RootDir) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		c.RootDir = wd
	}

	absRootPath, err := filepath.Abs(c.RootDir)
	if err != nil {
		return err
	}
	if _, err = os.Stat(absRootPath); err != nil {
		return fmt.Errorf("%w: root directory %s is not accessible: %v", ErrInvalidConfig, absRootPath, err)
	}
	c.RootDir = absRootPath

	if len(c.LogConfig.Root) == 0 {
		c.LogConfig.Root = c.RootDir
	}
	c.LogConfig.OutputLog = utils.JoinBasePathIfRelativeRegularFilePath(c.LogConfig.Root, c.LogConfig.OutputLog)
	c.LogConfig.AccessLog = utils.JoinBasePathIfRelativeRegularFilePath(c.LogConfig.Root, c.LogConfig.AccessLog)
	c.LogConfig.ErrorLog = utils.JoinBasePathIfRelativeRegularFilePath(c.LogConfig.Root, c.LogConfig.ErrorLog)

	if c.TLSCertConfig.CertFile != "" {
		c.TLSCertConfig.CertFile = utils.JoinBasePathIfRelativeRegularFilePath(c.RootDir, c.TLSCertConfig.CertFile)
	}
	if c.TLSCertConfig.KeyFile != "" {
		c.TLSCertConfig.KeyFile = utils.JoinBasePathIfRelativeRegularFilePath(c.RootDir, c.TLSCertConfig.KeyFile)
	}
	if c.RobotsFile != "" {
		c.RobotsFile = utils.JoinBasePathIfRelativeRegularFilePath(c.RootDir, c.RobotsFile)
	}

	names := make([]string, 0, len(c.Middleware))
	for _, name := range c.Middleware {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = []string{middleware.SecurityHeadersMiddlewareName}
	}
	c.Middleware = names
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d is out of range", ErrInvalidConfig, c.Port)
	}
	if (c.TLSCertConfig.CertFile == "") != (c.TLSCertConfig.KeyFile == "") {
		return fmt.Errorf("%w: TLS requires both a certificate and a key file", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 || c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}
