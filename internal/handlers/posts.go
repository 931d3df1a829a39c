package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/templates"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("poststatus", func(fl validator.FieldLevel) bool {
			return models.ValidStatus(fl.Field().String())
		})
	}
}

// PostHandler serves story creation, editing and browsing
type PostHandler struct {
	postService *services.PostService
	metrics     metrics.Recorder
	logger      zerolog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(
	postService *services.PostService,
	m metrics.Recorder,
	logger zerolog.Logger,
) *PostHandler {
	return &PostHandler{
		postService: postService,
		metrics:     m,
		logger:      logger,
	}
}

type postForm struct {
	Title  string `form:"title"  binding:"required"`
	Body   string `form:"body"   binding:"required"`
	Status string `form:"status" binding:"required,poststatus"`
}

type commentForm struct {
	Body string `form:"commentBody" binding:"required"`
}

// AddPostPage renders the new-story form
func (h *PostHandler) AddPostPage(c *gin.Context) {
	templates.Render(c, http.StatusOK, "addPost", templates.AddPostPageProps{
		BaseProps: baseProps(c),
	})
}

// SavePost creates a story owned by the principal and redirects to the
// public listing
func (h *PostHandler) SavePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A title, body and valid status are required.")
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), services.CreatePostParams{
		Title:         form.Title,
		Body:          form.Body,
		Status:        form.Status,
		AllowComments: checkboxValue(c, "allowComments"),
		UserID:        middleware.CurrentUser(c).ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			renderError(c, http.StatusBadRequest, "Unknown story status.")
			return
		}
		h.logger.Error().Err(err).Msg("failed to create post")
		renderError(c, http.StatusInternalServerError, "Failed to save your story.")
		return
	}

	h.metrics.RecordPostCreated(post.Status)
	c.Redirect(http.StatusFound, "/posts")
}

// EditPostPage renders the edit form pre-filled with the story
func (h *PostHandler) EditPostPage(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderPostError(c, err, "load")
		return
	}

	templates.Render(c, http.StatusOK, "editPost", templates.EditPostPageProps{
		BaseProps: baseProps(c),
		Post:      post,
	})
}

// UpdatePost overwrites a story's mutable fields and returns to the profile
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A title, body and valid status are required.")
		return
	}

	_, err := h.postService.EditPost(c.Request.Context(), c.Param("id"), services.EditPostParams{
		Title:         form.Title,
		Body:          form.Body,
		Status:        form.Status,
		AllowComments: checkboxValue(c, "allowComments"),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			renderError(c, http.StatusBadRequest, "Unknown story status.")
			return
		}
		h.renderPostError(c, err, "update")
		return
	}

	c.Redirect(http.StatusFound, middleware.AuthLanding)
}

// DeletePost removes a story and returns to the profile
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		h.renderPostError(c, err, "delete")
		return
	}

	h.metrics.RecordPostDeleted()
	c.Redirect(http.StatusFound, middleware.AuthLanding)
}

// PublicPosts renders every public story with owners and commenters
func (h *PostHandler) PublicPosts(c *gin.Context) {
	posts, err := h.postService.ListPublicPosts(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list public posts")
		renderError(c, http.StatusInternalServerError, "Failed to load stories.")
		return
	}

	templates.Render(c, http.StatusOK, "publicPosts", templates.PostsPageProps{
		BaseProps: baseProps(c),
		Posts:     posts,
	})
}

// UserPosts renders one member's public stories
func (h *PostHandler) UserPosts(c *gin.Context) {
	posts, err := h.postService.ListUserPublicPosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderPostError(c, err, "list")
		return
	}

	templates.Render(c, http.StatusOK, "userPosts", templates.PostsPageProps{
		BaseProps: baseProps(c),
		Posts:     posts,
	})
}

// AddComment appends the principal's comment to a story
func (h *PostHandler) AddComment(c *gin.Context) {
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "A comment body is required.")
		return
	}

	_, err := h.postService.AddComment(
		c.Request.Context(),
		c.Param("id"),
		middleware.CurrentUser(c).ID,
		form.Body,
	)
	if err != nil {
		h.renderPostError(c, err, "comment")
		return
	}

	h.metrics.RecordCommentAdded()
	c.Redirect(http.StatusFound, "/posts")
}

func (h *PostHandler) renderPostError(c *gin.Context, err error, operation string) {
	if errors.Is(err, services.ErrPostNotFound) {
		renderError(c, http.StatusNotFound, "Story not found.")
		return
	}
	h.metrics.RecordDatabaseError(operation)
	h.logger.Error().Err(err).Str("operation", operation).Msg("post operation failed")
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
