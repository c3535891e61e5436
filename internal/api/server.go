package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ameistad/dlpanel/internal/constants"
	"github.com/ameistad/dlpanel/internal/logging"
	"github.com/ameistad/dlpanel/internal/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultContextTimeout = 30 * time.Second

// Options configures an APIServer.
type Options struct {
	StreamPath        string
	StopPath          string
	StartPath         string
	KeepaliveInterval time.Duration
	Logger            *zerolog.Logger
}

// APIServer exposes the log stream and the download controls over HTTP.
type APIServer struct {
	router            *http.ServeMux
	broker            *logging.Broker
	runner            *runner.Runner
	logger            zerolog.Logger
	streamPath        string
	stopPath          string
	startPath         string
	keepaliveInterval time.Duration
}

func NewServer(broker *logging.Broker, r *runner.Runner, opts Options) *APIServer {
	if opts.StreamPath == "" {
		opts.StreamPath = constants.DefaultStreamPath
	}
	if opts.StopPath == "" {
		opts.StopPath = constants.DefaultStopPath
	}
	if opts.StartPath == "" {
		opts.StartPath = constants.DefaultStartPath
	}
	if opts.KeepaliveInterval <= 0 {
		opts.KeepaliveInterval = constants.DefaultKeepaliveInterval
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &APIServer{
		router:            http.NewServeMux(),
		broker:            broker,
		runner:            r,
		logger:            logger.With().Str("component", "api").Logger(),
		streamPath:        opts.StreamPath,
		stopPath:          opts.StopPath,
		startPath:         opts.StartPath,
		keepaliveInterval: opts.KeepaliveInterval,
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler with request logging applied.
func (s *APIServer) Handler() http.Handler {
	return s.loggingMiddleware(s.router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *APIServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", addr).Msg("dlpanel server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Streams never end on their own, so close subscribers before waiting for handlers.
	s.broker.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
