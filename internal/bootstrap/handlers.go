package bootstrap

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/auth"
	"github.com/go-storybook/storybook/internal/handlers"
	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/services"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	page  *handlers.PageHandler
	oauth *handlers.OAuthHandler
	auth  *handlers.AuthHandler
	user  *handlers.UserHandler
	post  *handlers.PostHandler

	userService *services.UserService
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	userService *services.UserService,
	postService *services.PostService,
	oauthProviders map[string]*auth.OAuthProvider,
	oauthHTTPClient *http.Client,
	metricsRecorder metrics.Recorder,
	logger zerolog.Logger,
) handlerSet {
	return handlerSet{
		page:  handlers.NewPageHandler(providerList(oauthProviders)),
		oauth: handlers.NewOAuthHandler(oauthProviders, userService, oauthHTTPClient, metricsRecorder, logger),
		auth:  handlers.NewAuthHandler(metricsRecorder),
		user:  handlers.NewUserHandler(userService, postService, logger),
		post:  handlers.NewPostHandler(postService, metricsRecorder, logger),

		userService: userService,
	}
}
