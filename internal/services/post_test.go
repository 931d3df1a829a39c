package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/store/storetest"
)

func newPostService() (*PostService, *storetest.Fake) {
	fake := storetest.New()
	return NewPostService(fake, zerolog.Nop()), fake
}

func TestCreatePost(t *testing.T) {
	svc, _ := newPostService()
	owner := bson.NewObjectID()

	post, err := svc.CreatePost(context.Background(), CreatePostParams{
		Title:         "First story",
		Body:          "Once upon a time.",
		Status:        models.StatusPublic,
		AllowComments: true,
		UserID:        owner,
	})
	require.NoError(t, err)

	assert.False(t, post.ID.IsZero())
	assert.Equal(t, owner, post.UserID)
	assert.True(t, post.AllowComments)
	assert.Empty(t, post.Comments)
}

func TestCreatePostRejectsUnknownStatus(t *testing.T) {
	svc, _ := newPostService()

	_, err := svc.CreatePost(context.Background(), CreatePostParams{
		Title:  "First story",
		Body:   "Once upon a time.",
		Status: "draft",
		UserID: bson.NewObjectID(),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestEditPostPreservesIdentityAndComments(t *testing.T) {
	svc, _ := newPostService()
	ctx := context.Background()
	owner := bson.NewObjectID()
	commenter := bson.NewObjectID()

	post, err := svc.CreatePost(ctx, CreatePostParams{
		Title:         "First story",
		Body:          "Once upon a time.",
		Status:        models.StatusPublic,
		AllowComments: true,
		UserID:        owner,
	})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, post.ID.Hex(), commenter, "Lovely.")
	require.NoError(t, err)

	edited, err := svc.EditPost(ctx, post.ID.Hex(), EditPostParams{
		Title:         "Renamed story",
		Body:          "A different beginning.",
		Status:        models.StatusPrivate,
		AllowComments: false,
	})
	require.NoError(t, err)

	assert.Equal(t, post.ID, edited.ID)
	assert.Equal(t, owner, edited.UserID)
	assert.Equal(t, "Renamed story", edited.Title)
	assert.Equal(t, models.StatusPrivate, edited.Status)
	assert.False(t, edited.AllowComments)
	require.Len(t, edited.Comments, 1)
	assert.Equal(t, "Lovely.", edited.Comments[0].Body)
}

func TestEditPostNotFound(t *testing.T) {
	svc, _ := newPostService()

	_, err := svc.EditPost(context.Background(), bson.NewObjectID().Hex(), EditPostParams{
		Title:  "x",
		Body:   "y",
		Status: models.StatusPublic,
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	svc, _ := newPostService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostParams{
		Title:  "First story",
		Body:   "Once upon a time.",
		Status: models.StatusPublic,
		UserID: bson.NewObjectID(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID.Hex()))

	_, err = svc.GetPost(ctx, post.ID.Hex())
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID.Hex()), ErrPostNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, "not-a-hex-id"), ErrPostNotFound)
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	svc, _ := newPostService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostParams{
		Title:         "First story",
		Body:          "Once upon a time.",
		Status:        models.StatusPublic,
		AllowComments: true,
		UserID:        bson.NewObjectID(),
	})
	require.NoError(t, err)

	commenter := bson.NewObjectID()
	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.AddComment(ctx, post.ID.Hex(), commenter, body)
		require.NoError(t, err)
	}

	got, err := svc.GetPost(ctx, post.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Comments, 3)
	assert.Equal(t, "one", got.Comments[0].Body)
	assert.Equal(t, "two", got.Comments[1].Body)
	assert.Equal(t, "three", got.Comments[2].Body)
	assert.False(t, got.Comments[0].CreatedAt.IsZero())
}

func TestAddCommentPostNotFound(t *testing.T) {
	svc, _ := newPostService()

	_, err := svc.AddComment(context.Background(), bson.NewObjectID().Hex(), bson.NewObjectID(), "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPublicListingsFilterByStatus(t *testing.T) {
	svc, fake := newPostService()
	ctx := context.Background()
	alice := bson.NewObjectID()
	bob := bson.NewObjectID()

	seed := []struct {
		owner  bson.ObjectID
		title  string
		status string
		age    time.Duration
	}{
		{alice, "alice public old", models.StatusPublic, 3 * time.Hour},
		{alice, "alice private", models.StatusPrivate, 2 * time.Hour},
		{alice, "alice public new", models.StatusPublic, 1 * time.Hour},
		{bob, "bob unpublished", models.StatusUnpublished, 30 * time.Minute},
		{bob, "bob public", models.StatusPublic, 10 * time.Minute},
	}
	for _, s := range seed {
		_, err := fake.CreatePost(ctx, &models.Post{
			Title:     s.title,
			Body:      "body",
			Status:    s.status,
			UserID:    s.owner,
			CreatedAt: time.Now().Add(-s.age),
		})
		require.NoError(t, err)
	}

	public, err := svc.ListPublicPosts(ctx)
	require.NoError(t, err)
	require.Len(t, public, 3)
	assert.Equal(t, "bob public", public[0].Title)
	assert.Equal(t, "alice public new", public[1].Title)
	assert.Equal(t, "alice public old", public[2].Title)

	alicePublic, err := svc.ListUserPublicPosts(ctx, alice.Hex())
	require.NoError(t, err)
	require.Len(t, alicePublic, 2)
	assert.Equal(t, "alice public new", alicePublic[0].Title)

	// The profile shows every status the owner has, newest first.
	aliceAll, err := svc.ListProfilePosts(ctx, alice.Hex())
	require.NoError(t, err)
	require.Len(t, aliceAll, 3)
	assert.Equal(t, "alice public new", aliceAll[0].Title)
	assert.Equal(t, "alice private", aliceAll[1].Title)
	assert.Equal(t, "alice public old", aliceAll[2].Title)
}
