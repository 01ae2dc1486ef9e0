package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler/router"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"github.com/vfg2006/adlibrary-tracker/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// New builds the HTTP server. statistics may be nil when no database
// mirror is configured.
func New(
	cfg *config.Config,
	syncService handler.SyncService,
	statistics handler.StatisticsLister,
) (*Server, error) {
	if syncService == nil {
		return nil, fmt.Errorf("sync service is required")
	}

	if cfg.Auth.Secret == "" {
		log.L.Warn("AUTH_SECRET is empty, protected routes will refuse every request")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Sync(syncService, cfg.Auth.Secret)...),
		router.WithRoutes(handler.Statistics(statistics, cfg.Auth.Secret)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler exposes the composed handler chain
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.L.WithError(err).Error("Server failed")
			return err
		}
		return nil
	case <-ctx.Done():
		log.L.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("Starting graceful server shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Error during server shutdown")
		return err
	}

	log.L.Info("Server shut down")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
