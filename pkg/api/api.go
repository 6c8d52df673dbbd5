// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package api serves IP location lookups over HTTP against a loaded
// prefix trie.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeStegii/pauls-tool-collection/internal/logger"
	"github.com/LeStegii/pauls-tool-collection/pkg/geoloc"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config is the configuration for the lookup server.
type Config struct {
	// Address is the address and port to listen on.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
}

func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("listen address cannot be empty")
	}
	return nil
}

// Server answers lookup requests against a read-only trie.
type Server struct {
	cfg     Config
	trie    *geoloc.Trie
	metrics metrics
}

func New(cfg Config, trie *geoloc.Trie) *Server {
	return &Server{
		cfg:     cfg,
		trie:    trie,
		metrics: newMetrics(),
	}
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.routes(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	cErr := make(chan error, 1)
	go func() {
		cErr <- srv.ListenAndServe()
	}()
	log.InfoContext(ctx, "Serving location lookups", "address", s.cfg.Address, "prefixes", s.trie.Len())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	}
}

// routes builds the router for the lookup server.
func (s *Server) routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(ctx))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ip/{addr}", s.handleLookup)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

// lookupResponse is the body of a successful lookup.
type lookupResponse struct {
	IP       string          `json:"ip"`
	Location geoloc.Location `json:"location"`
}

// errorResponse is the body of a failed lookup.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	raw := chi.URLParam(r, "addr")

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		s.metrics.lookups.WithLabelValues(outcomeInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid IP address %q", raw)})
		return
	}

	loc, err := s.trie.Lookup(addr)
	if err != nil {
		if errors.Is(err, geoloc.ErrNotFound) {
			s.metrics.lookups.WithLabelValues(outcomeMiss).Inc()
			writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no location found for %s", addr)})
			return
		}
		log.ErrorContext(r.Context(), "Lookup failed", "addr", addr.String(), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}

	s.metrics.lookups.WithLabelValues(outcomeHit).Inc()
	writeJSON(w, http.StatusOK, lookupResponse{IP: addr.String(), Location: loc})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
