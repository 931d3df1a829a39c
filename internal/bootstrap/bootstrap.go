package bootstrap

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/store"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger zerolog.Logger

	// Core infrastructure
	DB              *store.Store
	MetricsRecorder metrics.Recorder

	// Services
	UserService *services.UserService
	PostService *services.PostService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
	WebFS      fs.FS
}

// Run initializes and starts the application
func Run(cfg *config.Config, logger zerolog.Logger, webFS fs.FS) error {
	app := &Application{
		Config: cfg,
		Logger: logger,
		WebFS:  webFS,
	}

	// Phase 1: Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up the database and metrics
func (app *Application) initializeInfrastructure() error {
	var err error

	app.DB, err = initializeDatabase(context.Background(), app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.MetricsRecorder = metrics.Init(app.Config.MetricsEnabled)
	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	app.UserService = services.NewUserService(app.DB, app.Logger)
	app.PostService = services.NewPostService(app.DB, app.Logger)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	oauthProviders := initializeOAuthProviders(app.Config, app.Logger)
	oauthHTTPClient := createOAuthHTTPClient(app.Config)

	app.HandlerSet = initializeHandlers(
		app.UserService,
		app.PostService,
		oauthProviders,
		oauthHTTPClient,
		app.MetricsRecorder,
		app.Logger,
	)

	router, err := setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.WebFS,
	)
	if err != nil {
		return err
	}
	app.Router = router

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server, app.Logger)
	addServerShutdownJob(m, app.Server, app.Logger)
	addDatabaseShutdownJob(m, app.DB, app.Logger)

	// Wait for graceful shutdown
	<-m.Done()
}
