package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
)

// AuthHandler handles session teardown
type AuthHandler struct {
	metrics metrics.Recorder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(m metrics.Recorder) *AuthHandler {
	return &AuthHandler{metrics: m}
}

// Logout clears the session principal and returns to the landing page
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserID)
	_ = session.Save()

	h.metrics.RecordLogout()
	c.Redirect(http.StatusFound, middleware.GuestLanding)
}
