// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server is a small functional-options wrapper around net/http
// giving every HTTP-facing component in this daemon the same lifecycle:
// health/readiness probes, an optional Prometheus scrape endpoint, and a
// graceful shutdown bounded by a timeout.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
)

// HealthChecker reports liveness for the /healthz probe.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// ReadinessChecker reports readiness for the /readyz probe.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// TLSConfig names the certificate pair to serve TLS with.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Server runs an HTTP listener until its context is cancelled.
type Server interface {
	Serve(ctx context.Context) error
	IsRunning() bool
}

type server struct {
	port            int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int
	tlsConfig       *TLSConfig

	router          chi.Router
	healthChecker   HealthChecker
	readinessChecker ReadinessChecker
	simpleHealth    bool
	serviceName     string
	prometheus      bool

	running atomic.Bool
}

// Option configures a Server before it starts serving.
type Option func(*server)

func WithPort(port int) Option                          { return func(s *server) { s.port = port } }
func WithReadTimeout(d time.Duration) Option             { return func(s *server) { s.readTimeout = d } }
func WithWriteTimeout(d time.Duration) Option            { return func(s *server) { s.writeTimeout = d } }
func WithIdleTimeout(d time.Duration) Option             { return func(s *server) { s.idleTimeout = d } }
func WithShutdownTimeout(d time.Duration) Option         { return func(s *server) { s.shutdownTimeout = d } }
func WithMaxHeaderBytes(n int) Option                    { return func(s *server) { s.maxHeaderBytes = n } }
func WithTLS(cfg TLSConfig) Option                       { return func(s *server) { s.tlsConfig = &cfg } }
func WithSimpleHealth() Option                           { return func(s *server) { s.simpleHealth = true } }
func WithPrometheusMetrics() Option                      { return func(s *server) { s.prometheus = true } }

// WithServiceHealth registers GET /health, returning the JSON envelope
// {"status":"ok","service":name} that external monitors poll. This is
// distinct from the /healthz liveness probe: /health always reports ok as
// long as the process is serving HTTP at all.
func WithServiceHealth(name string) Option {
	return func(s *server) { s.serviceName = name }
}

// WithHealthCheck wires a liveness checker into /healthz.
func WithHealthCheck(c HealthChecker) Option {
	return func(s *server) { s.healthChecker = c }
}

// WithReadinessCheck wires a readiness checker into /readyz.
func WithReadinessCheck(c ReadinessChecker) Option {
	return func(s *server) { s.readinessChecker = c }
}

// WithHandler mounts an additional handler at the given path.
func WithHandler(path string, h http.Handler) Option {
	return func(s *server) { s.router.Handle(path, h) }
}

// NewServer builds a Server; options apply in order, so a later WithHandler
// call for the same path overrides an earlier one.
func NewServer(opts ...Option) Server {
	s := &server{
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		router:          chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.simpleHealth {
		s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	} else if s.healthChecker != nil {
		s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := s.healthChecker.Healthy(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	if s.serviceName != "" {
		s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(struct {
				Status  string `json:"status"`
				Service string `json:"service"`
			}{Status: "ok", Service: s.serviceName})
		})
	}

	if s.readinessChecker != nil {
		s.router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
			if err := s.readinessChecker.Ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	if s.prometheus {
		s.router.Handle("/metrics", promhttp.Handler())
	}

	return s
}

// Serve runs the HTTP listener until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        s.router,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.running.Store(true)
		var err error
		if s.tlsConfig != nil {
			err = httpServer.ListenAndServeTLS(s.tlsConfig.CertFile, s.tlsConfig.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		s.running.Store(false)
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// IsRunning reports whether the listener is currently accepting connections.
func (s *server) IsRunning() bool {
	return s.running.Load()
}
