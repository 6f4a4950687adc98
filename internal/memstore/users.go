package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
	"github.com/google/uuid"
)

// GetUserByID returns the user or nil.
func (s *Store) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

// GetUserByEmail returns the user with the (case-insensitive) email or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.emails[strings.ToLower(email)]; ok {
		c := *s.users[id]
		return &c, nil
	}
	return nil, nil
}

// CreateUser stores user under a new id. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, user *types.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.emails[key]; exists {
		return fmt.Errorf("%w: %s", types.ErrEmailTaken, user.Email)
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	c := *user
	s.users[user.ID] = &c
	s.emails[key] = user.ID
	return nil
}
