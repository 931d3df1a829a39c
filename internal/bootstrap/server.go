package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/store"
)

// createHTTPServer creates the HTTP server. The method-override wrapper
// sits outside the router so rewritten requests hit the right route.
func createHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           middleware.MethodOverride(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server listener as a running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server, logger zerolog.Logger) {
	m.AddRunningJob(func(ctx context.Context) error {
		logger.Info().Str("addr", srv.Addr).Msg("starting http server")
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("failed to start server")
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds graceful HTTP server shutdown
func addServerShutdownJob(m *graceful.Manager, srv *http.Server, logger zerolog.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info().Msg("shutting down http server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

// addDatabaseShutdownJob disconnects from the database on shutdown
func addDatabaseShutdownJob(m *graceful.Manager, db *store.Store, logger zerolog.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info().Msg("closing database connection")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.Close(ctx)
	})
}
