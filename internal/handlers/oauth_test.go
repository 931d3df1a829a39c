package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-storybook/storybook/internal/auth"
	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/store/storetest"
	"github.com/go-storybook/storybook/internal/templates"
)

func oauthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := storetest.New()
	userService := services.NewUserService(fake, zerolog.Nop())

	providers := map[string]*auth.OAuthProvider{
		config.ProviderGoogle: auth.NewGoogleProvider(auth.OAuthProviderConfig{
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			RedirectURL:  "http://localhost:3000/auth/google/callback",
		}),
	}

	handler := NewOAuthHandler(
		providers,
		userService,
		http.DefaultClient,
		metrics.NewNoopMetrics(),
		zerolog.Nop(),
	)

	r := gin.New()
	r.Use(sessions.Sessions(middleware.SessionName, cookie.NewStore([]byte("test-secret"))))

	tmpl, err := templates.Load(os.DirFS("../.."))
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)

	r.GET("/auth/:provider", handler.LoginWithProvider)
	r.GET("/auth/:provider/callback", handler.OAuthCallback)
	return r
}

func TestLoginWithProviderRedirectsToGoogle(t *testing.T) {
	r := oauthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", location.Host)
	assert.Equal(t, "test-client-id", location.Query().Get("client_id"))
	assert.NotEmpty(t, location.Query().Get("state"), "state must be set for CSRF protection")
}

func TestLoginWithUnknownProvider(t *testing.T) {
	r := oauthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/twitter", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackDeniedConsentRedirectsHome(t *testing.T) {
	r := oauthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/auth/google/callback?error=access_denied", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCallbackStateMismatchRedirectsHome(t *testing.T) {
	r := oauthTestRouter(t)

	// Start a login to get a session with a stored state.
	start := httptest.NewRecorder()
	r.ServeHTTP(start, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, start.Code)

	req := httptest.NewRequest(
		http.MethodGet, "/auth/google/callback?state=forged&code=abc", nil)
	for _, c := range start.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCallbackWithoutSessionRedirectsHome(t *testing.T) {
	r := oauthTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/auth/google/callback?state=whatever&code=abc", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
