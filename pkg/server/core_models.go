// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/vmware/headerguard/pkg/config"
	"github.com/vmware/headerguard/pkg/middleware"
)

// PlatformServer exposes public API methods that control the behavior of the server instance.
type PlatformServer interface {
	StartServer(syschan chan os.Signal)                 // start server and block until it is stopped
	StopServer()                                        // stop server
	SetStaticRoute(prefix, fullpath string)             // set up a static content route
	Handler() http.Handler                              // get the global handler chain
	GetRouter() *mux.Router                             // get *mux.Router that routes are registered on
	GetMiddlewareManager() middleware.MiddlewareManager // get middleware manager
	GetId() uuid.UUID                                   // get unique server id
}

// platformServer is the main struct that holds all components together including the http server, router and
// middleware manager
type platformServer struct {
	HttpServer        *http.Server                 // Http server instance
	SyscallChan       chan os.Signal               // syscall channel to receive SIGINT, SIGTERM events
	serverConfig      *config.ServerConfig         // server config instance
	middlewareManager middleware.MiddlewareManager // middleware manager instance
	router            *mux.Router                  // *mux.Router instance
	handler           http.Handler                 // global handler chain
	id                uuid.UUID                    // server instance id
	lock              sync.Mutex                   // lock
	stopOnce          sync.Once                    // guards StopServer
	done              chan struct{}                // closed once the server has shut down
}
