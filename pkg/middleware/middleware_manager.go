// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/vmware/headerguard/utils"
)

var (
	ErrMiddlewareExists  = errors.New("middleware already registered")
	ErrUnknownMiddleware = errors.New("unknown middleware")
)

// MiddlewareManager keeps named middleware and assembles them into a handler chain from a list of
// names. the security header interceptor it was created with is always the outermost link.
type MiddlewareManager interface {
	Register(m Middleware) error
	Get(name string) (Middleware, bool)
	Names() []string
	Resolve(names []string) ([]Middleware, error)
	Apply(names []string, h http.Handler) (http.Handler, error)
}

type middlewareManager struct {
	guard    Middleware
	registry map[string]Middleware
	order    []string
	mu       sync.RWMutex
}

// NewMiddlewareManager returns a manager that enforces guard on every chain it builds. a nil guard
// falls back to NewSecurityHeadersMiddleware().
func NewMiddlewareManager(guard Middleware) MiddlewareManager {
	if guard == nil {
		guard = NewSecurityHeadersMiddleware()
	}
	return &middlewareManager{
		guard:    guard,
		registry: make(map[string]Middleware),
	}
}

func (m *middlewareManager) Register(mw Middleware) error {
	if mw == nil {
		return errors.New("cannot register a nil middleware")
	}
	name := mw.Name()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.registry[name]; exists || name == m.guard.Name() {
		return fmt.Errorf("%w: %s", ErrMiddlewareExists, name)
	}
	m.registry[name] = mw
	m.order = append(m.order, name)
	utils.Log.Debugf("middleware '%s' registered", name)
	return nil
}

func (m *middlewareManager) Get(name string) (Middleware, bool) {
	if name == m.guard.Name() {
		return m.guard, true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	mw, ok := m.registry[name]
	return mw, ok
}

// Names lists the guard followed by every registered middleware in registration order
func (m *middlewareManager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.order)+1)
	names = append(names, m.guard.Name())
	return append(names, m.order...)
}

func (m *middlewareManager) Resolve(names []string) ([]Middleware, error) {
	resolved := []Middleware{m.guard}
	seen := map[string]bool{m.guard.Name(): true}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		mw, ok := m.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMiddleware, name)
		}
		seen[name] = true
		resolved = append(resolved, mw)
	}
	return resolved, nil
}

func (m *middlewareManager) Apply(names []string, h http.Handler) (http.Handler, error) {
	chain, err := m.Resolve(names)
	if err != nil {
		return nil, err
	}

	chainNames := make([]string, len(chain))
	for i, mw := range chain {
		chainNames[i] = mw.Name()
	}
	utils.Log.Infof("Middleware chain configured: %s", strings.Join(chainNames, " -> "))

	return BuildChain(chain, h), nil
}
