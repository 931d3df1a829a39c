package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/models"
)

// CreateUser inserts a new user document.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := s.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}
	user.ID = objectID

	return user, nil
}

// GetUser fetches a user by its hex id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	result := s.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})

	var user models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByProvider fetches a user by the subject id a provider assigned to
// it. The provider name doubles as the document field holding the subject id.
func (s *Store) GetUserByProvider(ctx context.Context, provider, subjectID string) (*models.User, error) {
	field, err := providerField(provider)
	if err != nil {
		return nil, err
	}

	result := s.db.Collection(userCollection).FindOne(ctx, bson.M{field: subjectID})

	var user models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUserContact sets the contact fields present in params and returns the
// updated document.
func (s *Store) UpdateUserContact(
	ctx context.Context,
	id string,
	params UpdateContactParams,
) (*models.User, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{}
	if params.Email != nil {
		updateMap["email"] = *params.Email
	}
	if params.Phone != nil {
		updateMap["phone"] = *params.Phone
	}
	if params.Location != nil {
		updateMap["location"] = *params.Location
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no contact fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := s.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var user models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// usersByID batch-fetches the given users and returns them keyed by id.
// This is the application-level join behind owner and commenter population.
func (s *Store) usersByID(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*models.User, error) {
	if len(ids) == 0 {
		return map[bson.ObjectID]*models.User{}, nil
	}

	cursor, err := s.db.Collection(userCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	byID := make(map[bson.ObjectID]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func providerField(provider string) (string, error) {
	switch provider {
	case config.ProviderGoogle, config.ProviderFacebook:
		return provider, nil
	}
	return "", fmt.Errorf("unsupported provider: %s", provider)
}
