package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/go-storybook/storybook/internal/auth"
	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/services"
)

// Session keys used during the OAuth round trip.
const (
	sessionOAuthState    = "oauth_state"
	sessionOAuthProvider = "oauth_provider"
)

// OAuthHandler handles the OAuth login round trip
type OAuthHandler struct {
	providers   map[string]*auth.OAuthProvider
	userService *services.UserService
	httpClient  *http.Client // Custom HTTP client for OAuth requests
	metrics     metrics.Recorder
	logger      zerolog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	providers map[string]*auth.OAuthProvider,
	userService *services.UserService,
	httpClient *http.Client,
	m metrics.Recorder,
	logger zerolog.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		userService: userService,
		httpClient:  httpClient,
		metrics:     m,
		logger:      logger,
	}
}

// LoginWithProvider redirects the browser to the OAuth provider
func (h *OAuthHandler) LoginWithProvider(c *gin.Context) {
	provider := c.Param("provider")

	oauthProvider, exists := h.providers[provider]
	if !exists {
		renderError(c, http.StatusBadRequest, "Unknown login provider.")
		return
	}

	// Generate state for CSRF protection
	state, err := generateRandomState(32)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate oauth state")
		h.metrics.RecordOAuthLogin(provider, false)
		renderError(c, http.StatusInternalServerError, "Failed to start login. Please try again.")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionOAuthState, state)
	session.Set(sessionOAuthProvider, provider)
	if err := session.Save(); err != nil {
		h.logger.Error().Err(err).Msg("failed to save oauth session")
		h.metrics.RecordOAuthLogin(provider, false)
		renderError(c, http.StatusInternalServerError, "Failed to start login. Please try again.")
		return
	}

	h.metrics.RecordOAuthLogin(provider, true)
	c.Redirect(http.StatusTemporaryRedirect, oauthProvider.GetAuthURL(state))
}

// OAuthCallback handles the provider's redirect back: it verifies the state,
// exchanges the code, resolves or creates the user and establishes the
// session. Failures redirect to the provider's failure route.
func (h *OAuthHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")

	oauthProvider, exists := h.providers[provider]
	if !exists {
		renderError(c, http.StatusBadRequest, "Unknown login provider.")
		return
	}

	session := sessions.Default(c)

	// Denied consent or provider error arrives as an error parameter
	if errCode := c.Query("error"); errCode != "" {
		h.logger.Warn().Str("provider", provider).Str("error", errCode).Msg("oauth denied")
		h.failLogin(c, session, oauthProvider)
		return
	}

	// Verify state (CSRF protection)
	savedState, _ := session.Get(sessionOAuthState).(string)
	savedProvider, _ := session.Get(sessionOAuthProvider).(string)
	if savedState == "" || c.Query("state") != savedState || provider != savedProvider {
		h.logger.Warn().Str("provider", provider).Msg("oauth state mismatch")
		h.failLogin(c, session, oauthProvider)
		return
	}

	// Use the dedicated HTTP client for provider requests
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, h.httpClient)

	token, err := oauthProvider.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		h.logger.Error().Err(err).Str("provider", provider).Msg("oauth code exchange failed")
		h.failLogin(c, session, oauthProvider)
		return
	}

	userInfo, err := oauthProvider.GetUserInfo(ctx, token)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", provider).Msg("oauth profile fetch failed")
		h.failLogin(c, session, oauthProvider)
		return
	}

	user, err := h.userService.AuthenticateWithOAuth(c.Request.Context(), provider, userInfo)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", provider).Msg("oauth authentication failed")
		h.failLogin(c, session, oauthProvider)
		return
	}

	// Clear OAuth round-trip data; store only the principal's local id
	session.Delete(sessionOAuthState)
	session.Delete(sessionOAuthProvider)
	session.Set(middleware.SessionUserID, user.ID.Hex())
	if err := session.Save(); err != nil {
		h.logger.Error().Err(err).Msg("failed to save session")
		h.metrics.RecordOAuthCallback(provider, false)
		renderError(c, http.StatusInternalServerError, "Failed to establish session. Please try again.")
		return
	}

	h.metrics.RecordOAuthCallback(provider, true)
	h.logger.Info().
		Str("provider", provider).
		Str("user_id", user.ID.Hex()).
		Msg("user authenticated")

	c.Redirect(http.StatusFound, middleware.AuthLanding)
}

// failLogin clears the OAuth round-trip state and redirects to the
// provider's configured failure route.
func (h *OAuthHandler) failLogin(
	c *gin.Context,
	session sessions.Session,
	provider *auth.OAuthProvider,
) {
	h.metrics.RecordOAuthCallback(provider.GetProvider(), false)
	session.Delete(sessionOAuthState)
	session.Delete(sessionOAuthProvider)
	_ = session.Save()
	c.Redirect(http.StatusFound, provider.GetFailureURL())
}

// generateRandomState generates a random state string for OAuth CSRF protection
func generateRandomState(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
