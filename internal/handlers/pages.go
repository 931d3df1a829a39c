package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-storybook/storybook/internal/templates"
)

// PageHandler serves the static pages
type PageHandler struct {
	providers []templates.OAuthProvider
}

// NewPageHandler creates a new page handler
func NewPageHandler(providers []templates.OAuthProvider) *PageHandler {
	return &PageHandler{providers: providers}
}

// Home renders the guest landing page with the configured login providers
func (h *PageHandler) Home(c *gin.Context) {
	templates.Render(c, http.StatusOK, "home", templates.HomePageProps{
		BaseProps: baseProps(c),
		Providers: h.providers,
	})
}

// About renders the informational page
func (h *PageHandler) About(c *gin.Context) {
	templates.Render(c, http.StatusOK, "about", templates.AboutPageProps{
		BaseProps: baseProps(c),
	})
}
