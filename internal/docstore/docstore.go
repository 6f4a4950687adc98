// Package docstore stores interviews, sessions and users in MongoDB.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	InterviewsCollection = "interviews"
	SessionsCollection   = "interviewsessions"
	UsersCollection      = "users"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "hardcode"

// Store is a MongoDB-backed session.Store and user store.
type Store struct {
	client     *mongo.Client
	interviews *mongo.Collection
	sessions   *mongo.Collection
	users      *mongo.Collection
}

// Connect opens a client for uri and verifies it with a ping. database falls
// back to DefaultDatabase when empty.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if database == "" {
		database = DefaultDatabase
	}
	db := client.Database(database)
	return &Store{
		client:     client,
		interviews: db.Collection(InterviewsCollection),
		sessions:   db.Collection(SessionsCollection),
		users:      db.Collection(UsersCollection),
	}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the store relies on. The unique indexes
// enforce one session per interview and user, and one user per email.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.interviews, []mongo.IndexModel{
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		}},
		{s.sessions, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "interviewId", Value: 1}, {Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("one_attempt_per_user"),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}}},
		}},
		{s.users, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "emailKey", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email"),
			},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.col.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", spec.col.Name(), err)
		}
	}
	return nil
}

// parseID parses a hex ObjectID. ok is false for malformed ids, which callers
// treat as "no such document".
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func parseIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := parseID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
