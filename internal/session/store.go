package session

import (
	"context"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
)

// DiscoverPageSize is the fixed page size of DiscoverInterviews.
const DiscoverPageSize = 10

// InterviewFilter selects interviews for discovery.
type InterviewFilter struct {
	// ExcludeCreator drops interviews created by this user.
	ExcludeCreator string
	// ExcludeIDs drops these interview ids.
	ExcludeIDs []string
	Offset     int
	Limit      int
}

// Store persists interviews and sessions. Lookups return (nil, nil) when the
// record is absent, including when the id is not well-formed for the backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateInterview assigns interview.ID and CreatedAt and stores it.
	CreateInterview(ctx context.Context, interview *types.Interview) error
	GetInterview(ctx context.Context, id string) (*types.Interview, error)
	// ListInterviews returns one page of matching interviews, newest first,
	// and the total number of matches.
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]*types.Interview, int64, error)

	// CreateSession assigns session.ID and stores it. It returns
	// ErrDuplicateAttempt when the (interview, user) pair exists.
	CreateSession(ctx context.Context, session *types.InterviewSession) error
	GetSession(ctx context.Context, id string) (*types.InterviewSession, error)
	FindSession(ctx context.Context, interviewID, userID string) (*types.InterviewSession, error)
	// CompleteSession replaces the feedback and completion time. It returns
	// ErrNotFound when no session has the id.
	CompleteSession(ctx context.Context, id string, feedback *types.Feedback, completedAt time.Time) error
	// ListSessionsByUser returns the user's sessions, most recently started
	// first. limit <= 0 means no limit.
	ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*types.InterviewSession, error)
	// AttemptedInterviewIDs returns the interview ids of all the user's sessions.
	AttemptedInterviewIDs(ctx context.Context, userID string) ([]string, error)
}
