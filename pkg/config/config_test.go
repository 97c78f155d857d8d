// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// arrange
	root := t.TempDir()
	v := NewViper()
	v.Set("root_dir", root)

	// act
	cfg, err := Load(v)

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, "localhost", cfg.Host)
	assert.EqualValues(t, 30080, cfg.Port)
	assert.EqualValues(t, []string{"security-headers"}, cfg.Middleware)
	assert.EqualValues(t, time.Minute, cfg.ShutdownTimeout)
	assert.EqualValues(t, 60*time.Second, cfg.ReadTimeout)
	assert.EqualValues(t, 60*time.Second, cfg.WriteTimeout)
	assert.EqualValues(t, "stdout", cfg.LogConfig.OutputLog)
	assert.EqualValues(t, "stdout", cfg.LogConfig.AccessLog)
	assert.EqualValues(t, "stderr", cfg.LogConfig.ErrorLog)
	assert.EqualValues(t, filepath.Join(root, "robots.txt"), cfg.RobotsFile)
	assert.False(t, cfg.TLSCertConfig.Enabled())
	assert.False(t, cfg.EnablePrometheus)
}

func TestLoad_EnvOverrides(t *testing.T) {
	// arrange
	root := t.TempDir()
	t.Setenv("HEADERGUARD_ROOT_DIR", root)
	t.Setenv("HEADERGUARD_PORT", "8443")
	t.Setenv("HEADERGUARD_MIDDLEWARE", "metrics,cache-control")
	t.Setenv("HEADERGUARD_SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("HEADERGUARD_LOG_ACCESS_LOG", "access.log")
	v := NewViper()

	// act
	cfg, err := Load(v)

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, 8443, cfg.Port)
	assert.EqualValues(t, []string{"metrics", "cache-control"}, cfg.Middleware)
	assert.EqualValues(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.EqualValues(t, filepath.Join(root, "access.log"), cfg.LogConfig.AccessLog)
}

func TestLoad_ConfigFile(t *testing.T) {
	// arrange
	root := t.TempDir()
	configFile := filepath.Join(root, "headerguard.yaml")
	content := `
host: 0.0.0.0
port: 9090
middleware:
  - cache-control
cache_control:
  globs:
    - "/static/**"
  rule: "max-age=3600"
tls:
  cert_file: cert/server.crt
  key_file: cert/server.key
log:
  output_log: platform.log
enable_prometheus: true
write_timeout: 2m
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	v := NewViper()
	v.Set("root_dir", root)
	v.Set("config_file", configFile)

	// act
	cfg, err := Load(v)

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, "0.0.0.0", cfg.Host)
	assert.EqualValues(t, 9090, cfg.Port)
	assert.EqualValues(t, []string{"cache-control"}, cfg.Middleware)
	assert.EqualValues(t, []string{"/static/**"}, cfg.CacheControl.Globs)
	assert.EqualValues(t, "max-age=3600", cfg.CacheControl.Rule)
	assert.EqualValues(t, filepath.Join(root, "cert/server.crt"), cfg.TLSCertConfig.CertFile)
	assert.EqualValues(t, filepath.Join(root, "cert/server.key"), cfg.TLSCertConfig.KeyFile)
	assert.True(t, cfg.TLSCertConfig.Enabled())
	assert.EqualValues(t, filepath.Join(root, "platform.log"), cfg.LogConfig.OutputLog)
	assert.True(t, cfg.EnablePrometheus)
	assert.EqualValues(t, 2*time.Minute, cfg.WriteTimeout)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	// arrange
	v := NewViper()
	v.Set("root_dir", t.TempDir())
	v.Set("config_file", filepath.Join(t.TempDir(), "missing.yaml"))

	// act
	cfg, err := Load(v)

	// assert
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_Flags(t *testing.T) {
	// arrange
	root := t.TempDir()
	flags := pflag.NewFlagSet("start-server", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{
		"-r", root,
		"-p", "4000",
		"-n", "0.0.0.0",
		"-m", "metrics",
		"--cache-control-glob", "/*.js",
		"--shutdown-timeout", "10s",
		"--prometheus",
		"-b",
	}))
	v := NewViper()

	// act
	require.NoError(t, BindFlags(v, flags))
	cfg, err := Load(v)

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, root, cfg.RootDir)
	assert.EqualValues(t, 4000, cfg.Port)
	assert.EqualValues(t, "0.0.0.0", cfg.Host)
	assert.EqualValues(t, []string{"metrics"}, cfg.Middleware)
	assert.EqualValues(t, []string{"/*.js"}, cfg.CacheControl.Globs)
	assert.EqualValues(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.EnablePrometheus)
	assert.True(t, cfg.NoBanner)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	// arrange
	t.Setenv("HEADERGUARD_PORT", "8443")
	flags := pflag.NewFlagSet("start-server", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"-r", t.TempDir(), "--port", "5000"}))
	v := NewViper()
	require.NoError(t, BindFlags(v, flags))

	// act
	cfg, err := Load(v)

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, 5000, cfg.Port)
}

func TestSanitize_RootDirMustExist(t *testing.T) {
	// arrange
	cfg := &ServerConfig{RootDir: filepath.Join(t.TempDir(), "does-not-exist")}

	// act
	err := cfg.Sanitize()

	// assert
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSanitize_EmptyMiddlewareFallsBackToSecurityHeaders(t *testing.T) {
	// arrange
	cfg := &ServerConfig{RootDir: t.TempDir(), Middleware: []string{" ", ""}}

	// act
	err := cfg.Sanitize()

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, []string{"security-headers"}, cfg.Middleware)
}

func TestSanitize_KeepsAbsoluteAndReservedLogTargets(t *testing.T) {
	// arrange
	absLog := filepath.Join(t.TempDir(), "out.log")
	cfg := &ServerConfig{RootDir: t.TempDir()}
	cfg.LogConfig.OutputLog = absLog
	cfg.LogConfig.AccessLog = "null"
	cfg.LogConfig.ErrorLog = "stderr"

	// act
	err := cfg.Sanitize()

	// assert
	require.NoError(t, err)
	assert.EqualValues(t, absLog, cfg.LogConfig.OutputLog)
	assert.EqualValues(t, "null", cfg.LogConfig.AccessLog)
	assert.EqualValues(t, "stderr", cfg.LogConfig.ErrorLog)
	assert.EqualValues(t, cfg.RootDir, cfg.LogConfig.Root)
}

func TestValidate(t *testing.T) {
	valid := func() *ServerConfig {
		return &ServerConfig{
			Port:            30080,
			ShutdownTimeout: time.Minute,
			ReadTimeout:     time.Minute,
			WriteTimeout:    time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *ServerConfig) {}},
		{name: "port zero", mutate: func(c *ServerConfig) { c.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *ServerConfig) { c.Port = 70000 }, wantErr: true},
		{name: "cert without key", mutate: func(c *ServerConfig) { c.TLSCertConfig.CertFile = "server.crt" }, wantErr: true},
		{name: "key without cert", mutate: func(c *ServerConfig) { c.TLSCertConfig.KeyFile = "server.key" }, wantErr: true},
		{name: "cert and key", mutate: func(c *ServerConfig) {
			c.TLSCertConfig.CertFile = "server.crt"
			c.TLSCertConfig.KeyFile = "server.key"
		}},
		{name: "zero shutdown timeout", mutate: func(c *ServerConfig) { c.ShutdownTimeout = 0 }, wantErr: true},
		{name: "negative read timeout", mutate: func(c *ServerConfig) { c.ReadTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
