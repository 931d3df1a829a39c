package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/services"
)

const (
	// SessionName is the cookie the session middleware is registered under.
	SessionName = "storybook_session"

	// SessionUserID is the only value the session stores: the
	// principal's local id in hex.
	SessionUserID = "user_id"

	// contextUser is the gin context key carrying the resolved principal.
	contextUser = "user"
)

// Guest and authenticated landing routes.
const (
	GuestLanding = "/"
	AuthLanding  = "/profile"
)

// LoadPrincipal resolves the session's stored user id into a full user
// record once per request and stores it in the request context. A session
// whose id no longer resolves is cleared and treated as unauthenticated.
func LoadPrincipal(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserID).(string)
		if !ok || userID == "" {
			c.Next()
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			session.Delete(SessionUserID)
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

// RequireAuth gates a route on an authenticated principal. Unauthenticated
// requests are redirected to the guest landing page before the handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, GuestLanding)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuest gates a guest-only route. Authenticated requests are
// redirected to the profile page.
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, AuthLanding)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal resolved by LoadPrincipal, or nil for
// an unauthenticated request.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(contextUser)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
