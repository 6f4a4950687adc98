package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSession inserts sess and assigns its ID. The unique attempt index
// turns a second session for the same pair into session.ErrDuplicateAttempt.
func (s *Store) CreateSession(ctx context.Context, sess *types.InterviewSession) error {
	interviewID, ok := parseID(sess.InterviewID)
	if !ok {
		return fmt.Errorf("invalid interview id %q", sess.InterviewID)
	}
	userID, ok := parseID(sess.UserID)
	if !ok {
		return fmt.Errorf("invalid user id %q", sess.UserID)
	}

	doc := sessionDoc{
		ID:          primitive.NewObjectID(),
		InterviewID: interviewID,
		UserID:      userID,
		StartedAt:   sess.StartedAt,
	}
	if _, err := s.sessions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return session.ErrDuplicateAttempt
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	sess.ID = doc.ID.Hex()
	return nil
}

// GetSession retrieves a session by ID. Unknown and malformed ids yield nil.
func (s *Store) GetSession(ctx context.Context, id string) (*types.InterviewSession, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return s.findSession(ctx, bson.M{"_id": oid})
}

// FindSession returns the session of userID on interviewID, or nil.
func (s *Store) FindSession(ctx context.Context, interviewID, userID string) (*types.InterviewSession, error) {
	iid, ok := parseID(interviewID)
	if !ok {
		return nil, nil
	}
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	return s.findSession(ctx, bson.M{"interviewId": iid, "userId": uid})
}

func (s *Store) findSession(ctx context.Context, filter bson.M) (*types.InterviewSession, error) {
	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return doc.toSession(), nil
}

// CompleteSession attaches feedback and sets completedAt, replacing any
// earlier feedback.
func (s *Store) CompleteSession(ctx context.Context, id string, feedback *types.Feedback, completedAt time.Time) error {
	oid, ok := parseID(id)
	if !ok {
		return session.ErrNotFound
	}
	if err := feedback.Scores.CheckRange(); err != nil {
		return fmt.Errorf("reject feedback: %w", err)
	}

	result, err := s.sessions.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"completedAt": completedAt,
			"feedback":    newFeedbackDoc(feedback),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	if result.MatchedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}

// ListSessionsByUser returns the user's sessions, newest start first. A limit
// of zero or less returns every session.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*types.InterviewSession, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.sessions.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []sessionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	sessions := make([]*types.InterviewSession, len(docs))
	for i := range docs {
		sessions[i] = docs[i].toSession()
	}
	return sessions, nil
}

// AttemptedInterviewIDs returns the ids of every interview the user has a session for.
func (s *Store) AttemptedInterviewIDs(ctx context.Context, userID string) ([]string, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}

	values, err := s.sessions.Distinct(ctx, "interviewId", bson.M{"userId": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempted interviews: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}
