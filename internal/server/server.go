package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"scormbridge/internal/config"
	"scormbridge/internal/connector"
	"scormbridge/internal/ingest"
	"scormbridge/internal/logging"
	"scormbridge/internal/store"
)

// Server exposes the package manager over HTTP. It owns the ingestion service
// and connector synthesizer; the store and config are shared with the daemon.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	ingest *ingest.Service
	synth  *connector.Synthesizer
	store  *store.Store

	listener net.Listener
	server   *http.Server
}

// New constructs the HTTP server and its request router.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		ingest: ingest.NewService(cfg, st, logger),
		synth:  connector.NewSynthesizer(cfg, st, logger),
		store:  st,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.requestMiddleware)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/packages", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/packages", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/packages/{ref}", s.handleDetail).Methods(http.MethodGet)
	api.HandleFunc("/packages/{ref}", s.handleUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/packages/{ref}/connector", s.handleConnector).Methods(http.MethodGet)

	s.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the configured router for use in tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the configured address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down and releases the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
