package bootstrap

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/auth"
	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/templates"
)

// initializeOAuthProviders initializes the configured identity providers
func initializeOAuthProviders(
	cfg *config.Config,
	logger zerolog.Logger,
) map[string]*auth.OAuthProvider {
	providers := make(map[string]*auth.OAuthProvider)

	if cfg.GoogleEnabled() {
		providers[config.ProviderGoogle] = auth.NewGoogleProvider(auth.OAuthProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.CallbackURL(config.ProviderGoogle),
		})
		logger.Info().
			Str("redirect", cfg.CallbackURL(config.ProviderGoogle)).
			Msg("google oauth configured")
	}

	if cfg.FacebookEnabled() {
		providers[config.ProviderFacebook] = auth.NewFacebookProvider(auth.OAuthProviderConfig{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.CallbackURL(config.ProviderFacebook),
		})
		logger.Info().
			Str("redirect", cfg.CallbackURL(config.ProviderFacebook)).
			Msg("facebook oauth configured")
	}

	return providers
}

// providerList converts the provider map into view props for login buttons
func providerList(providers map[string]*auth.OAuthProvider) []templates.OAuthProvider {
	list := make([]templates.OAuthProvider, 0, len(providers))
	for _, p := range providers {
		list = append(list, templates.OAuthProvider{
			Name:        p.GetProvider(),
			DisplayName: p.GetDisplayName(),
		})
	}
	return list
}

// createOAuthHTTPClient creates the HTTP client used for provider requests
func createOAuthHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.OAuthTimeout}
}
