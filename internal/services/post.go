package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/store"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidStatus = errors.New("invalid post status")
)

// CreatePostParams defines the input for creating a post.
type CreatePostParams struct {
	Title         string
	Body          string
	Status        string
	AllowComments bool
	UserID        bson.ObjectID
}

// EditPostParams defines the input for editing a post. All four fields are
// overwritten; id, owner and comments are preserved.
type EditPostParams struct {
	Title         string
	Body          string
	Status        string
	AllowComments bool
}

// PostService manages posts and their comments.
type PostService struct {
	posts  store.PostStore
	logger zerolog.Logger
}

func NewPostService(posts store.PostStore, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// CreatePost persists a new post owned by the given user.
func (s *PostService) CreatePost(ctx context.Context, params CreatePostParams) (*models.Post, error) {
	if !models.ValidStatus(params.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, params.Status)
	}

	post, err := s.posts.CreatePost(ctx, &models.Post{
		Title:         params.Title,
		Body:          params.Body,
		Status:        params.Status,
		AllowComments: params.AllowComments,
		UserID:        params.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("post_id", post.ID.Hex()).
		Str("user_id", post.UserID.Hex()).
		Str("status", post.Status).
		Msg("post created")

	return post, nil
}

// GetPost fetches a single post.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return post, nil
}

// EditPost overwrites a post's mutable fields.
func (s *PostService) EditPost(ctx context.Context, id string, params EditPostParams) (*models.Post, error) {
	if !models.ValidStatus(params.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, params.Status)
	}

	post, err := s.posts.UpdatePost(ctx, id, store.UpdatePostParams{
		Title:         params.Title,
		Body:          params.Body,
		Status:        params.Status,
		AllowComments: params.AllowComments,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return post, nil
}

// DeletePost removes a single post by id.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return s.mapError(err)
	}

	s.logger.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

// AddComment appends a comment by the given user to a post.
func (s *PostService) AddComment(
	ctx context.Context,
	postID string,
	userID bson.ObjectID,
	body string,
) (*models.Post, error) {
	post, err := s.posts.AddComment(ctx, postID, models.Comment{
		Body:   body,
		UserID: userID,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return post, nil
}

// ListProfilePosts returns a user's own posts for the profile page, newest
// first, owner attached.
func (s *PostService) ListProfilePosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.posts.ListPostsByUser(ctx, userID)
}

// ListPublicPosts returns every public post, newest first, with owners and
// commenters attached.
func (s *PostService) ListPublicPosts(ctx context.Context) ([]*models.Post, error) {
	return s.posts.ListPublicPosts(ctx)
}

// ListUserPublicPosts returns one user's public posts, newest first.
func (s *PostService) ListUserPublicPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	posts, err := s.posts.ListPublicPostsByUser(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return posts, nil
}

func (s *PostService) mapError(err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return ErrPostNotFound
	}
	return err
}
