package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/PrintfR/HardCode/internal/types"
	"go.uber.org/zap"
)

// UserStore persists users. Lookups return (nil, nil) when absent and
// CreateUser wraps types.ErrEmailTaken for a duplicate email.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) error
}

// UserService resolves signed-in identities to users.
type UserService struct {
	store  UserStore
	logger *zap.Logger
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(store UserStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, logger: logger.Named("users")}
}

// SignIn returns the user for identity, creating it on first sign-in. A
// concurrent first sign-in for the same email resolves to the same user.
func (s *UserService) SignIn(ctx context.Context, identity *types.Identity) (*types.User, error) {
	user, err := s.store.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &types.User{
		Name:  identity.Name,
		Email: identity.Email,
		Image: identity.Image,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, types.ErrEmailTaken) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		existing, lookupErr := s.store.GetUserByEmail(ctx, identity.Email)
		if lookupErr != nil || existing == nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return existing, nil
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))
	return user, nil
}

// GetUser returns the user with id.
func (s *UserService) GetUser(ctx context.Context, id string) (*types.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return user, nil
}
