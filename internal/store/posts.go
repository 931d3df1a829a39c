package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/go-storybook/storybook/internal/models"
)

// CreatePost inserts a new post document.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	result, err := s.db.Collection(postCollection).InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}
	post.ID = objectID

	return post, nil
}

// GetPost fetches a post by its hex id.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	result := s.db.Collection(postCollection).FindOne(ctx, bson.M{"_id": objectID})

	var post models.Post
	if err := result.Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &post, nil
}

// UpdatePost overwrites the mutable fields of a post and returns the updated
// document. Owner and comments are untouched.
func (s *Store) UpdatePost(ctx context.Context, id string, params UpdatePostParams) (*models.Post, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	result := s.db.Collection(postCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"title":          params.Title,
			"body":           params.Body,
			"status":         params.Status,
			"allow_comments": params.AllowComments,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := result.Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &post, nil
}

// DeletePost removes a single post by id.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := s.db.Collection(postCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// AddComment appends a comment to a post's comment list and returns the
// updated document. Existing comments keep their order.
func (s *Store) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Post, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	result := s.db.Collection(postCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$push": bson.M{"comments": comment}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var post models.Post
	if err := result.Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &post, nil
}

// ListPostsByUser returns all posts owned by a user, newest first, with the
// owner populated.
func (s *Store) ListPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	objectID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.findPosts(ctx, bson.M{"user": objectID})
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublicPosts returns all public posts, newest first, with owners and
// commenters populated.
func (s *Store) ListPublicPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.findPosts(ctx, bson.M{"status": models.StatusPublic})
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, posts, true); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublicPostsByUser returns a user's public posts, newest first, with
// the owner populated.
func (s *Store) ListPublicPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	objectID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.findPosts(ctx, bson.M{"user": objectID, "status": models.StatusPublic})
	if err != nil {
		return nil, err
	}

	if err := s.populate(ctx, posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) findPosts(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := s.db.Collection(postCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// populate resolves owner references (and optionally commenter references)
// into user records with a single batched lookup.
func (s *Store) populate(ctx context.Context, posts []*models.Post, commenters bool) error {
	seen := map[bson.ObjectID]struct{}{}
	var ids []bson.ObjectID
	add := func(id bson.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, p := range posts {
		add(p.UserID)
		if commenters {
			for _, c := range p.Comments {
				add(c.UserID)
			}
		}
	}

	byID, err := s.usersByID(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.User = byID[p.UserID]
		if commenters {
			for i := range p.Comments {
				p.Comments[i].User = byID[p.Comments[i].UserID]
			}
		}
	}

	return nil
}
