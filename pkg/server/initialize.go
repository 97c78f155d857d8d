// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/vmware/headerguard/pkg/metrics"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

// initialize sets up basic configurations according to the serverConfig object such as setting output writer,
// log formatter, creating a router instance, registering middleware and setting up an HttpServer instance.
func (ps *platformServer) initialize() error {
	cfg := ps.serverConfig

	// initialize log output streams
	if err := cfg.LogConfig.PrepareLogFiles(); err != nil {
		return fmt.Errorf("failed to prepare log outputs: %w", err)
	}

	// set logrus out writer options and assign output stream
	utils.Log.SetFormatter(utils.CreateTextFormatterFromFormatOptions(&cfg.LogConfig.Format))
	utils.Log.SetOutput(cfg.LogConfig.GetPlatformLogFilePointer())

	// if debug flag is provided enable extra logging
	if cfg.Debug {
		utils.Log.SetLevel(logrus.DebugLevel)
		utils.Log.Debugln("Debug logging enabled")
	}

	if cfg.EnablePrometheus {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	ps.router = mux.NewRouter()

	// register a reserved path /robots.txt for setting crawler policies
	ps.configureRobotsPath()

	// register a reserved path /health for use with container orchestration layer like k8s
	ps.router.Path("/health").Name("health").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	// register a reserved path /prometheus for runtime metrics, if enabled
	if cfg.EnablePrometheus {
		ps.router.Path("/prometheus").Name("prometheus").Methods(http.MethodGet).Handler(
			promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
				EnableOpenMetrics: true,
			}))
	}

	// register static paths
	for _, dir := range cfg.StaticDir {
		p, uri := utils.DeriveStaticURIFromPath(dir)
		p = utils.JoinBasePathIfRelativeRegularFilePath(cfg.RootDir, p)
		if _, err := os.Stat(p); err != nil {
			utils.Log.Warnf("Static path %s is not accessible and will serve 404s: %s", p, err.Error())
		}
		utils.Log.Debugf("Serving static path %s at %s", p, uri)
		ps.SetStaticRoute(uri, p)
	}

	// instantiate a new middleware manager with the security header interceptor as its guard
	var onCommit func(status int)
	if cfg.EnablePrometheus {
		onCommit = func(int) {
			metrics.SecurityHeadersApplied.Inc()
		}
	}
	ps.middlewareManager = middleware.NewMiddlewareManager(middleware.NewObservedSecurityHeadersMiddleware(onCommit))
	if err := ps.registerDefaultMiddleware(); err != nil {
		return err
	}

	// create an http server instance
	ps.HttpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     log.New(cfg.LogConfig.GetErrorLogFilePointer(), "ERROR ", log.LstdFlags),
	}

	if err := ps.loadGlobalHttpHandler(ps.router); err != nil {
		return err
	}

	// print out the quick summary of the server configuration, if NoBanner is false
	if !cfg.NoBanner {
		ps.printBanner(os.Stdout)
	}
	return nil
}

// registerDefaultMiddleware makes the built-in middleware available by name to the configured middleware list
func (ps *platformServer) registerDefaultMiddleware() error {
	cc := ps.serverConfig.CacheControl
	if len(cc.Globs) > 0 {
		mw := middleware.NewCacheControlMiddleware(cc.Globs, middleware.ParseCacheControlDirective(cc.Rule))
		if err := ps.middlewareManager.Register(mw); err != nil {
			return err
		}
	}

	if ps.serverConfig.EnablePrometheus {
		if err := ps.middlewareManager.Register(middleware.PrometheusMetricsMiddleware(middleware.MuxRouteGroup(ps.router))); err != nil {
			return err
		}
	}
	return nil
}

// loadGlobalHttpHandler wraps h with recovery, compression and access logging, then with the configured
// middleware. the security header interceptor always ends up outermost.
func (ps *platformServer) loadGlobalHttpHandler(h *mux.Router) error {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	ps.router = h
	base := handlers.RecoveryHandler(
		handlers.RecoveryLogger(utils.Log),
		handlers.PrintRecoveryStack(ps.serverConfig.Debug))(
		handlers.CompressHandler(
			handlers.CombinedLoggingHandler(
				ps.serverConfig.LogConfig.GetAccessLogFilePointer(), ps.router)))

	handler, err := ps.middlewareManager.Apply(ps.serverConfig.Middleware, base)
	if err != nil {
		return err
	}
	ps.handler = handler
	ps.HttpServer.Handler = handler
	return nil
}

func (ps *platformServer) configureRobotsPath() {
	robotsFilePath := ps.serverConfig.RobotsFile
	ps.router.Path("/robots.txt").Name("robots").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.Log.Debugf("Attempting to load robots.txt from %s", robotsFilePath)

		// if robots.txt was not found or cannot be loaded for some reason, ignore it and return 404
		// still, return the detailed error as a debug message to facilitate ease of troubleshooting
		b, err := os.ReadFile(robotsFilePath)
		if robotsFilePath == "" || err != nil {
			utils.Log.Debugln(err)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(b)
	})
}
