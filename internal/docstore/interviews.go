package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ session.Store = (*Store)(nil)

// CreateInterview inserts interview and assigns its ID.
func (s *Store) CreateInterview(ctx context.Context, interview *types.Interview) error {
	owner, ok := parseID(interview.CreatedBy)
	if !ok {
		return fmt.Errorf("invalid interview owner %q", interview.CreatedBy)
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}

	questions := make([]questionDoc, len(interview.Questions))
	for i, q := range interview.Questions {
		questions[i] = questionDoc{ID: q.ID, Text: q.Text}
	}
	techStack := interview.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	doc := interviewDoc{
		ID:                primitive.NewObjectID(),
		Title:             interview.Title,
		Position:          interview.Position,
		TechStack:         techStack,
		Type:              string(interview.Type),
		Difficulty:        string(interview.Difficulty),
		NumberOfQuestions: interview.NumberOfQuestions,
		Questions:         questions,
		CreatedAt:         interview.CreatedAt,
		CreatedBy:         owner,
	}
	if _, err := s.interviews.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	interview.ID = doc.ID.Hex()
	return nil
}

// GetInterview retrieves an interview by ID. Unknown and malformed ids yield nil.
func (s *Store) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	var doc interviewDoc
	if err := s.interviews.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return doc.toInterview(), nil
}

// ListInterviews returns one page of interviews matching filter, newest first,
// with the total number of matches.
func (s *Store) ListInterviews(ctx context.Context, filter session.InterviewFilter) ([]*types.Interview, int64, error) {
	query := bson.M{}
	if owner, ok := parseID(filter.ExcludeCreator); ok {
		query["createdBy"] = bson.M{"$ne": owner}
	}
	if excluded := parseIDs(filter.ExcludeIDs); len(excluded) > 0 {
		query["_id"] = bson.M{"$nin": excluded}
	}

	total, err := s.interviews.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.interviews.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []interviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode interviews: %w", err)
	}

	interviews := make([]*types.Interview, len(docs))
	for i := range docs {
		interviews[i] = docs[i].toInterview()
	}
	return interviews, total, nil
}
