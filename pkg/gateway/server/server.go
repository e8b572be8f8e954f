// Package server wires the gateway: HTTP routes, websocket upgrades, the
// session registry, and graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vango-go/vai-ivr/pkg/gateway/config"
	"github.com/vango-go/vai-ivr/pkg/gateway/live/session"
	"github.com/vango-go/vai-ivr/pkg/gateway/live/sessions"
	"github.com/vango-go/vai-ivr/pkg/gateway/mw"
	"github.com/vango-go/vai-ivr/pkg/ivr"
	"github.com/vango-go/vai-ivr/pkg/ivr/fallback"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	registry *sessions.Registry
	fallback fallback.Handler
	upgrader websocket.Upgrader
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	var fb fallback.Handler = fallback.Noop{}
	if cfg.AnthropicAPIKey != "" {
		fb = fallback.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		logger.Info("llm fallback enabled")
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, llm fallback disabled")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		registry: sessions.NewRegistry(cfg.MaxSessions),
		fallback: fb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/v1/calls", s.handleCall)
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"live_calls": s.registry.Count(),
	})
}

// handleCall upgrades to a websocket and runs one call session until the
// client hangs up or the gateway shuts down.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	callID, release, err := s.registry.Register(sessions.Handle{Cancel: cancel})
	if err != nil {
		if errors.Is(err, sessions.ErrCapacity) {
			s.logger.Warn("call rejected, gateway at capacity")
			http.Error(w, "gateway at capacity", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	// A canceled context must unblock the session's read loop.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	sess := session.New(callID, conn, session.Config{
		WriteTimeout:    s.cfg.WSWriteTimeout,
		PingInterval:    s.cfg.WSPingInterval,
		MaxCallDuration: s.cfg.WSMaxCallDuration,
		MaxMessageBytes: s.cfg.MaxJSONMessageBytes,
	}, s.engineFactory(), s.logger)

	if err := sess.Run(ctx); err != nil {
		s.logger.Warn("call session ended with error", "call_id", callID, "error", err)
	}
}

func (s *Server) engineFactory() session.EngineFactory {
	return func(goal string, ctx types.DTMFContext) *ivr.Engine {
		return ivr.New(s.cfg.DetectorConfig(goal, ctx), ivr.WithFallback(s.fallback))
	}
}

// Run serves until ctx is canceled, then drains live calls for the
// configured grace period before forcing them closed.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", s.cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "live_calls", s.registry.Count())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGracePeriod)
	defer cancel()

	if !s.registry.Wait(shutdownCtx) {
		n := s.registry.CancelAll()
		s.logger.Warn("grace period expired, canceling live calls", "canceled", n)
	}
	return httpServer.Shutdown(shutdownCtx)
}
