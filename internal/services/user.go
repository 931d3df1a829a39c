package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/go-storybook/storybook/internal/auth"
	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/store"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserService resolves principals and manages profile data.
type UserService struct {
	users  store.UserStore
	logger zerolog.Logger
}

func NewUserService(users store.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// AuthenticateWithOAuth resolves an external profile to a local user,
// creating one on first login. Repeated logins with the same subject id
// always resolve to the same user.
func (s *UserService) AuthenticateWithOAuth(
	ctx context.Context,
	provider string,
	info *auth.OAuthUserInfo,
) (*models.User, error) {
	user, err := s.users.GetUserByProvider(ctx, provider, info.ProviderUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	newUser := &models.User{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		FullName:  info.FullName,
		Email:     info.Email,
		Image:     info.AvatarURL,
	}
	switch provider {
	case config.ProviderGoogle:
		newUser.GoogleID = info.ProviderUserID
	case config.ProviderFacebook:
		newUser.FacebookID = info.ProviderUserID
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	created, err := s.users.CreateUser(ctx, newUser)
	if err != nil {
		// A concurrent first login may have inserted the same subject id;
		// the unique index rejects the second insert, so re-resolve.
		if mongo.IsDuplicateKeyError(err) {
			return s.users.GetUserByProvider(ctx, provider, info.ProviderUserID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("provider", provider).
		Str("user_id", created.ID.Hex()).
		Msg("new user registered via oauth")

	return created, nil
}

// GetUserByID resolves a principal id stored in the session back to a full
// user record.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsers(ctx)
}

// SetEmail stores an email override on the user's profile.
func (s *UserService) SetEmail(ctx context.Context, id, email string) (*models.User, error) {
	return s.updateContact(ctx, id, store.UpdateContactParams{Email: &email})
}

// SetPhone stores a phone number on the user's profile.
func (s *UserService) SetPhone(ctx context.Context, id, phone string) (*models.User, error) {
	return s.updateContact(ctx, id, store.UpdateContactParams{Phone: &phone})
}

// SetLocation stores a location on the user's profile.
func (s *UserService) SetLocation(ctx context.Context, id, location string) (*models.User, error) {
	return s.updateContact(ctx, id, store.UpdateContactParams{Location: &location})
}

func (s *UserService) updateContact(
	ctx context.Context,
	id string,
	params store.UpdateContactParams,
) (*models.User, error) {
	user, err := s.users.UpdateUserContact(ctx, id, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
