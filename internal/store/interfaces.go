package store

import (
	"context"

	"github.com/go-storybook/storybook/internal/models"
)

// UserStore defines the user-related database operations the services need.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByProvider(ctx context.Context, provider, subjectID string) (*models.User, error)
	UpdateUserContact(ctx context.Context, id string, params UpdateContactParams) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// PostStore defines the post-related database operations the services need.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, params UpdatePostParams) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, comment models.Comment) (*models.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]*models.Post, error)
	ListPublicPosts(ctx context.Context) ([]*models.Post, error)
	ListPublicPostsByUser(ctx context.Context, userID string) ([]*models.Post, error)
}

// UpdateContactParams carries the optional contact fields of a profile
// update. Only fields that are not nil are written.
type UpdateContactParams struct {
	Email    *string
	Phone    *string
	Location *string
}

// UpdatePostParams carries the mutable fields of a post edit. The edit flow
// always overwrites all four; id, owner and comments are never touched.
type UpdatePostParams struct {
	Title         string
	Body          string
	Status        string
	AllowComments bool
}
