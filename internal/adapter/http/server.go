package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/adboard/adverts-service/internal/config"
	"github.com/adboard/adverts-service/internal/platform/logger"
)

// Server wraps the standard http.Server with the timeouts from config and a
// bounded graceful shutdown.
type Server struct {
	srv      *http.Server
	graceful config.HTTPServerConfig
	log      logger.Logger
}

func NewServer(cfg config.HTTPServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		graceful: cfg,
		log:      log,
	}
}

// Run blocks serving requests until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.log.Infof("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.graceful.TimeoutGraceful)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
