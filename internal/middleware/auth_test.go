package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/store/storetest"
)

func authTestRouter(t *testing.T) (*gin.Engine, *storetest.Fake) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := storetest.New()
	userService := services.NewUserService(fake, zerolog.Nop())

	r := gin.New()
	r.Use(sessions.Sessions(SessionName, cookie.NewStore([]byte("test-secret"))))
	r.Use(LoadPrincipal(userService))

	// Establishes a session the way a completed OAuth callback would.
	r.GET("/test/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserID, c.Param("id"))
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	r.GET("/", RequireGuest(), func(c *gin.Context) {
		c.String(http.StatusOK, "guest")
	})
	r.GET("/profile", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).DisplayName())
	})

	return r, fake
}

func seedUser(t *testing.T, fake *storetest.Fake) *models.User {
	t.Helper()
	user, err := fake.CreateUser(context.Background(), &models.User{
		GoogleID: "google-subject-1",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	return user
}

func loginCookies(t *testing.T, r *gin.Engine, id string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/login/"+id, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func TestRequireAuthRedirectsGuests(t *testing.T) {
	r, _ := authTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, GuestLanding, w.Header().Get("Location"))
}

func TestRequireAuthPassesPrincipal(t *testing.T) {
	r, fake := authTestRouter(t)
	user := seedUser(t, fake)
	cookies := loginCookies(t, r, user.ID.Hex())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane Doe", w.Body.String())
}

func TestRequireGuestRedirectsPrincipal(t *testing.T) {
	r, fake := authTestRouter(t)
	user := seedUser(t, fake)
	cookies := loginCookies(t, r, user.ID.Hex())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, AuthLanding, w.Header().Get("Location"))
}

func TestRequireGuestPassesAnonymous(t *testing.T) {
	r, _ := authTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadPrincipalClearsStaleSession(t *testing.T) {
	r, _ := authTestRouter(t)

	// A syntactically valid id that no longer resolves to a user.
	cookies := loginCookies(t, r, bson.NewObjectID().Hex())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, GuestLanding, w.Header().Get("Location"))
}
