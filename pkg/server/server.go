// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/vmware/headerguard/pkg/config"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

// NewPlatformServer configures and returns a new platformServer instance
func NewPlatformServer(cfg *config.ServerConfig) (PlatformServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing server configuration", config.ErrInvalidConfig)
	}
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}

	ps := &platformServer{
		serverConfig: cfg,
		id:           uuid.New(),
		done:         make(chan struct{}),
	}
	if err := ps.initialize(); err != nil {
		return nil, err
	}
	return ps, nil
}

// StartServer starts listening for HTTP(S) connections and blocks until a signal arrives on syschan or
// StopServer is called
func (ps *platformServer) StartServer(syschan chan os.Signal) {
	ps.SyscallChan = syschan
	signal.Notify(ps.SyscallChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ps.SyscallChan)

	go func() {
		var err error
		if ps.serverConfig.TLSCertConfig.Enabled() {
			utils.Log.Infof("Starting HTTP server at %s with TLS", ps.HttpServer.Addr)
			err = ps.HttpServer.ListenAndServeTLS(ps.serverConfig.TLSCertConfig.CertFile, ps.serverConfig.TLSCertConfig.KeyFile)
		} else {
			utils.Log.Infof("Starting HTTP server at %s", ps.HttpServer.Addr)
			err = ps.HttpServer.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Errorf("HTTP server stopped: %s", err.Error())
			ps.StopServer()
		}
	}()

	select {
	case <-ps.SyscallChan:
		ps.StopServer()
	case <-ps.done:
	}
}

// StopServer gracefully shuts down the HTTP server within the configured shutdown timeout. calling it more
// than once is a no-op.
func (ps *platformServer) StopServer() {
	ps.stopOnce.Do(func() {
		utils.Log.Infoln("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ps.serverConfig.ShutdownTimeout)
		defer cancel()

		if err := ps.HttpServer.Shutdown(shutdownCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				utils.Log.Errorf("Server failed to gracefully shut down after %s", ps.serverConfig.ShutdownTimeout.String())
			} else {
				utils.Log.Errorln(err)
			}
		}

		logConfig := &ps.serverConfig.LogConfig
		err := logConfig.CloseLogFiles()
		utils.Log.SetOutput(logConfig.GetPlatformLogFilePointer())
		if err != nil {
			utils.Log.Errorln(err)
		}
		close(ps.done)
	})
}

// SetStaticRoute serves the files under fullpath at prefix. directories without an index.html are not listed.
// files served at the root prefix are only looked up when no other route matches, whenever those routes
// were registered.
func (ps *platformServer) SetStaticRoute(prefix, fullpath string) {
	prefix = utils.SanitizeUrl(prefix, false)
	fileServer := http.FileServer(noListingFileSystem{http.Dir(fullpath)})

	if prefix == "" {
		ps.router.NotFoundHandler = fileServer
		return
	}

	routeName := fmt.Sprintf("static-%s", strings.TrimPrefix(prefix, "/"))
	ps.router.Path(prefix).Name(routeName + "-redirect").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, prefix+"/", http.StatusMovedPermanently)
	})
	ps.router.PathPrefix(prefix + "/").Name(routeName).Handler(http.StripPrefix(prefix, fileServer))
}

func (ps *platformServer) Handler() http.Handler {
	ps.lock.Lock()
	defer ps.lock.Unlock()
	return ps.handler
}

func (ps *platformServer) GetRouter() *mux.Router {
	return ps.router
}

func (ps *platformServer) GetMiddlewareManager() middleware.MiddlewareManager {
	return ps.middlewareManager
}

func (ps *platformServer) GetId() uuid.UUID {
	return ps.id
}
