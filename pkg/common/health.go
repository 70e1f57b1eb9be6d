// Package common provides shared utilities for the system.
package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/arl/statsviz"

	"github.com/ahrav/office-hub/pkg/common/logger"
)

// HealthServer is the debug listener. It serves process probes and the
// statsviz runtime dashboard on an address kept off the public API.
type HealthServer struct {
	ready  *atomic.Bool // Flipped once storage is migrated and the API is serving.
	server *http.Server
	log    *logger.Logger
}

// NewHealthServer builds the debug server on addr. Call Start to listen.
// The readiness endpoint answers 503 until ready is set.
func NewHealthServer(addr string, ready *atomic.Bool, log *logger.Logger) (*HealthServer, error) {
	mux := http.NewServeMux()
	hs := &HealthServer{
		ready: ready,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}

	mux.HandleFunc("/v1/readiness", hs.readinessHandler)
	mux.HandleFunc("/v1/health", hs.healthHandler)
	if err := statsviz.Register(mux); err != nil {
		return nil, fmt.Errorf("registering statsviz: %w", err)
	}

	return hs, nil
}

// Start serves in a background goroutine.
func (h *HealthServer) Start(ctx context.Context) {
	go func() {
		h.log.Info(ctx, "debug server listening", "addr", h.server.Addr)
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error(ctx, "debug server error", "error", err)
		}
	}()
}

// Handler exposes the mux for tests.
func (h *HealthServer) Handler() http.Handler { return h.server.Handler }

// Shutdown stops the listener, waiting for in-flight requests up to ctx.
func (h *HealthServer) Shutdown(ctx context.Context) error { return h.server.Shutdown(ctx) }

func (h *HealthServer) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		http.Error(w, "Not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
