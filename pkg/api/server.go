package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/rewind/pkg/api/handlers"
	"github.com/cbodonnell/rewind/pkg/api/middleware"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/queue"
	"github.com/cbodonnell/rewind/pkg/repositories"
	"github.com/cbodonnell/rewind/pkg/state"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
	logger *log.Logger
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	StateManager state.StateManager
	CommandQueue queue.Queue
	// Repository serves the checkpoint archive. Optional.
	Repository repositories.Repository
	// Feed serves the websocket notification feed. Optional.
	Feed http.Handler
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	logger := log.WithComponent("api")

	router := mux.NewRouter()
	router.Use(middleware.NewLoggingMiddleware(logger))

	if opts.Feed != nil {
		router.Handle("/ws", opts.Feed)
	}

	rest := router.NewRoute().Subrouter()
	rest.Use(middleware.CORS)
	rest.HandleFunc("/state", handlers.HandleGetState(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	rest.HandleFunc("/commands/{command}", handlers.HandleCommand(opts.CommandQueue)).Methods(http.MethodPost, http.MethodOptions)
	if opts.Repository != nil {
		rest.HandleFunc("/runs/{runID}/checkpoints", handlers.HandleListCheckpoints(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
		rest.HandleFunc("/runs/{runID}/checkpoints/latest", handlers.HandleGetLatestCheckpoint(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
		logger: logger,
	}
}

// Handler returns the router serving the API.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		s.logger.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		s.logger.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.logger.Info("API server closed")
			return
		}
		s.logger.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
