package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/templates"
)

// UserHandler serves the profile and member pages
type UserHandler struct {
	userService *services.UserService
	postService *services.PostService
	logger      zerolog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService *services.UserService,
	postService *services.PostService,
	logger zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
		logger:      logger,
	}
}

// Profile renders the principal's own posts, newest first
func (h *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	posts, err := h.postService.ListProfilePosts(c.Request.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list profile posts")
		renderError(c, http.StatusInternalServerError, "Failed to load your stories.")
		return
	}

	templates.Render(c, http.StatusOK, "profile", templates.ProfilePageProps{
		BaseProps: baseProps(c),
		Posts:     posts,
	})
}

// ListUsers renders all registered members
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		renderError(c, http.StatusInternalServerError, "Failed to load members.")
		return
	}

	templates.Render(c, http.StatusOK, "users", templates.UsersPageProps{
		BaseProps: baseProps(c),
		Users:     users,
	})
}

// ShowUser renders a single member's detail page
func (h *UserHandler) ShowUser(c *gin.Context) {
	profile, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			renderError(c, http.StatusNotFound, "Member not found.")
			return
		}
		h.logger.Error().Err(err).Msg("failed to load user")
		renderError(c, http.StatusInternalServerError, "Failed to load member.")
		return
	}

	templates.Render(c, http.StatusOK, "user", templates.UserPageProps{
		BaseProps: baseProps(c),
		Profile:   profile,
	})
}

type addEmailForm struct {
	Email string `form:"email" binding:"required,email"`
}

type addPhoneForm struct {
	Phone string `form:"phone" binding:"required"`
}

type addLocationForm struct {
	Location string `form:"location" binding:"required"`
}

// AddEmail stores an email override on the principal's profile
func (h *UserHandler) AddEmail(c *gin.Context) {
	var form addEmailForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A valid email address is required.")
		return
	}

	h.updateContact(c, func() error {
		_, err := h.userService.SetEmail(
			c.Request.Context(),
			middleware.CurrentUser(c).ID.Hex(),
			form.Email,
		)
		return err
	})
}

// AddPhone stores a phone number on the principal's profile
func (h *UserHandler) AddPhone(c *gin.Context) {
	var form addPhoneForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A phone number is required.")
		return
	}

	h.updateContact(c, func() error {
		_, err := h.userService.SetPhone(
			c.Request.Context(),
			middleware.CurrentUser(c).ID.Hex(),
			form.Phone,
		)
		return err
	})
}

// AddLocation stores a location on the principal's profile
func (h *UserHandler) AddLocation(c *gin.Context) {
	var form addLocationForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A location is required.")
		return
	}

	h.updateContact(c, func() error {
		_, err := h.userService.SetLocation(
			c.Request.Context(),
			middleware.CurrentUser(c).ID.Hex(),
			form.Location,
		)
		return err
	})
}

func (h *UserHandler) updateContact(c *gin.Context, update func() error) {
	if err := update(); err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		renderError(c, http.StatusInternalServerError, "Failed to update your profile.")
		return
	}
	c.Redirect(http.StatusFound, middleware.AuthLanding)
}
