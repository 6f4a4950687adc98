package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUser inserts user and assigns its ID. Emails are unique regardless of case.
func (s *Store) CreateUser(ctx context.Context, user *types.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		EmailKey:  emailKey(user.Email),
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", types.ErrEmailTaken, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// GetUserByID retrieves a user by ID. Unknown and malformed ids yield nil.
func (s *Store) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	if email == "" {
		return nil, nil
	}
	return s.findUser(ctx, bson.M{"emailKey": emailKey(email)})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*types.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toUser(), nil
}
