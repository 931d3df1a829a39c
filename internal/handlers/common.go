package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/templates"
)

// NotFound renders the error view for unmatched routes.
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Page not found.")
}

// baseProps builds the props every view shares: the current principal,
// or nil for guests.
func baseProps(c *gin.Context) templates.BaseProps {
	return templates.BaseProps{User: middleware.CurrentUser(c)}
}

// renderError renders the error view with the given HTTP status.
func renderError(c *gin.Context, status int, message string) {
	templates.Render(c, status, "error", templates.ErrorPageProps{
		BaseProps: baseProps(c),
		Error:     message,
	})
}

// checkboxValue converts checkbox presence in the submitted form into a
// boolean: a checkbox present with any value is true, an absent one is
// false. Browsers omit unchecked checkboxes entirely, so this differs from
// parsing the field's value.
func checkboxValue(c *gin.Context, field string) bool {
	_, present := c.GetPostForm(field)
	return present
}
