// Package memstore is an in-process implementation of the interview and user
// stores, used for local development and tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/google/uuid"
)

type pairKey struct {
	interviewID string
	userID      string
}

// Store keeps every record in maps guarded by a single RWMutex. Returned
// records are copies.
type Store struct {
	mu         sync.RWMutex
	interviews map[string]*types.Interview
	sessions   map[string]*types.InterviewSession
	pairs      map[pairKey]string
	users      map[string]*types.User
	emails     map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		interviews: make(map[string]*types.Interview),
		sessions:   make(map[string]*types.InterviewSession),
		pairs:      make(map[pairKey]string),
		users:      make(map[string]*types.User),
		emails:     make(map[string]string),
	}
}

var _ session.Store = (*Store)(nil)

// CreateInterview stores a copy of interview under a new id.
func (s *Store) CreateInterview(ctx context.Context, interview *types.Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	interview.ID = uuid.NewString()
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviews[interview.ID] = copyInterview(interview)
	return nil
}

// GetInterview returns the interview or nil.
func (s *Store) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if iv, ok := s.interviews[id]; ok {
		return copyInterview(iv), nil
	}
	return nil, nil
}

// ListInterviews filters, sorts newest first and pages.
func (s *Store) ListInterviews(ctx context.Context, filter session.InterviewFilter) ([]*types.Interview, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*types.Interview
	for _, iv := range s.interviews {
		if filter.ExcludeCreator != "" && iv.CreatedBy == filter.ExcludeCreator {
			continue
		}
		if slices.Contains(filter.ExcludeIDs, iv.ID) {
			continue
		}
		matches = append(matches, iv)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := int64(len(matches))
	start := min(max(filter.Offset, 0), len(matches))
	end := len(matches)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matches))
	}

	page := make([]*types.Interview, 0, end-start)
	for _, iv := range matches[start:end] {
		page = append(page, copyInterview(iv))
	}
	return page, total, nil
}

// CreateSession stores sess under a new id, enforcing one session per pair.
func (s *Store) CreateSession(ctx context.Context, sess *types.InterviewSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{interviewID: sess.InterviewID, userID: sess.UserID}
	if _, exists := s.pairs[key]; exists {
		return session.ErrDuplicateAttempt
	}
	sess.ID = uuid.NewString()
	s.sessions[sess.ID] = copySession(sess)
	s.pairs[key] = sess.ID
	return nil
}

// GetSession returns the session or nil.
func (s *Store) GetSession(ctx context.Context, id string) (*types.InterviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return copySession(sess), nil
	}
	return nil, nil
}

// FindSession returns the pair's session or nil.
func (s *Store) FindSession(ctx context.Context, interviewID, userID string) (*types.InterviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.pairs[pairKey{interviewID: interviewID, userID: userID}]; ok {
		return copySession(s.sessions[id]), nil
	}
	return nil, nil
}

// CompleteSession replaces feedback and completion time after a range check.
func (s *Store) CompleteSession(ctx context.Context, id string, feedback *types.Feedback, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := feedback.Scores.CheckRange(); err != nil {
		return fmt.Errorf("reject feedback: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	fb := copyFeedback(feedback)
	sess.Feedback = fb
	sess.CompletedAt = &completedAt
	return nil
}

// ListSessionsByUser returns the user's sessions, newest start first.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*types.InterviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.InterviewSession
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AttemptedInterviewIDs returns the distinct interview ids the user has sessions for.
func (s *Store) AttemptedInterviewIDs(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for key := range s.pairs {
		if key.userID == userID {
			ids = append(ids, key.interviewID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func copyInterview(iv *types.Interview) *types.Interview {
	c := *iv
	c.TechStack = slices.Clone(iv.TechStack)
	c.Questions = slices.Clone(iv.Questions)
	return &c
}

func copySession(sess *types.InterviewSession) *types.InterviewSession {
	c := *sess
	if sess.CompletedAt != nil {
		t := *sess.CompletedAt
		c.CompletedAt = &t
	}
	c.Feedback = copyFeedback(sess.Feedback)
	return &c
}

func copyFeedback(fb *types.Feedback) *types.Feedback {
	if fb == nil {
		return nil
	}
	c := *fb
	c.Suggestions = slices.Clone(fb.Suggestions)
	return &c
}
