// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/store"
)

// Fake is an in-memory store implementing store.UserStore and
// store.PostStore with the same ordering and error semantics as the real
// one.
type Fake struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*models.User
	posts map[bson.ObjectID]*models.Post
}

func New() *Fake {
	return &Fake{
		users: make(map[bson.ObjectID]*models.User),
		posts: make(map[bson.ObjectID]*models.Post),
	}
}

// duplicateKeyError mimics the server response the unique provider index
// produces, so mongo.IsDuplicateKeyError recognizes it.
func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key error"}},
	}
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, store.ErrInvalidID
	}
	return oid, nil
}

func (f *Fake) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if user.GoogleID != "" && existing.GoogleID == user.GoogleID {
			return nil, duplicateKeyError()
		}
		if user.FacebookID != "" && existing.FacebookID == user.FacebookID {
			return nil, duplicateKeyError()
		}
	}

	clone := *user
	clone.ID = bson.NewObjectID()
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	f.users[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (f *Fake) GetUser(_ context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	result := *user
	return &result, nil
}

func (f *Fake) GetUserByProvider(_ context.Context, provider, subjectID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		switch provider {
		case config.ProviderGoogle:
			if user.GoogleID == subjectID {
				result := *user
				return &result, nil
			}
		case config.ProviderFacebook:
			if user.FacebookID == subjectID {
				result := *user
				return &result, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (f *Fake) UpdateUserContact(
	_ context.Context,
	id string,
	params store.UpdateContactParams,
) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.Location != nil {
		user.Location = *params.Location
	}
	user.UpdatedAt = time.Now()

	result := *user
	return &result, nil
}

func (f *Fake) ListUsers(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*models.User, 0, len(f.users))
	for _, user := range f.users {
		result := *user
		users = append(users, &result)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (f *Fake) CreatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *post
	clone.ID = bson.NewObjectID()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	f.posts[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (f *Fake) GetPost(_ context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.withOwner(post), nil
}

func (f *Fake) UpdatePost(
	_ context.Context,
	id string,
	params store.UpdatePostParams,
) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	post.Title = params.Title
	post.Body = params.Body
	post.Status = params.Status
	post.AllowComments = params.AllowComments

	return f.withOwner(post), nil
}

func (f *Fake) DeletePost(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, oid)
	return nil
}

func (f *Fake) AddComment(_ context.Context, id string, comment models.Comment) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	post.Comments = append(post.Comments, comment)

	return f.withOwner(post), nil
}

func (f *Fake) ListPostsByUser(_ context.Context, userID string) ([]*models.Post, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.list(func(p *models.Post) bool { return p.UserID == oid }), nil
}

func (f *Fake) ListPublicPosts(_ context.Context) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.list(func(p *models.Post) bool { return p.IsPublic() }), nil
}

func (f *Fake) ListPublicPostsByUser(_ context.Context, userID string) ([]*models.Post, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.list(func(p *models.Post) bool { return p.UserID == oid && p.IsPublic() }), nil
}

// list returns matching posts newest first with owners and commenters
// attached. Callers must hold the mutex.
func (f *Fake) list(match func(*models.Post) bool) []*models.Post {
	posts := make([]*models.Post, 0)
	for _, post := range f.posts {
		if match(post) {
			posts = append(posts, f.withOwner(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

// withOwner clones a post and attaches the owner and commenter records.
// Callers must hold the mutex.
func (f *Fake) withOwner(post *models.Post) *models.Post {
	result := *post
	result.Comments = make([]models.Comment, len(post.Comments))
	copy(result.Comments, post.Comments)

	if owner, ok := f.users[post.UserID]; ok {
		clone := *owner
		result.User = &clone
	}
	for i := range result.Comments {
		if commenter, ok := f.users[result.Comments[i].UserID]; ok {
			clone := *commenter
			result.Comments[i].User = &clone
		}
	}
	return &result
}
