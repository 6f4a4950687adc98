// Package session implements the interview lifecycle: creating interviews,
// starting attempts, scoring transcripts and reading results back.
package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// joinConcurrency bounds the interview lookups of a session listing.
const joinConcurrency = 8

// QuestionGenerator produces interview questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, params types.GenerationParams) ([]string, error)
}

// TranscriptEvaluator scores a transcript.
type TranscriptEvaluator interface {
	Evaluate(ctx context.Context, transcript []types.TranscriptMessage) (*types.Feedback, error)
}

// Service runs the lifecycle operations against a Store.
type Service struct {
	store     Store
	generator QuestionGenerator
	evaluator TranscriptEvaluator
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewService wires a Service. logger and metrics may be nil.
func NewService(store Store, generator QuestionGenerator, evaluator TranscriptEvaluator, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		generator: generator,
		evaluator: evaluator,
		logger:    logger.Named("session"),
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StartAttempt opens a session for userID on an existing interview.
func (s *Service) StartAttempt(ctx context.Context, interviewID, userID string) (*types.SessionView, error) {
	if interviewID == "" {
		return nil, &ValidationError{Field: "id", Message: "Missing interview ID"}
	}

	interview, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, persistence("get interview", err)
	}
	if interview == nil {
		return nil, &NotFoundError{Resource: "interview", ID: interviewID}
	}

	existing, err := s.store.FindSession(ctx, interview.ID, userID)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if existing != nil {
		return nil, &ConflictError{InterviewID: interview.ID, UserID: userID}
	}

	return s.start(ctx, interview, userID)
}

// CreateInterviewAndStart generates questions for req, stores a new interview
// owned by userID and opens the owner's session on it. A failure after the
// interview is stored leaves the interview in place.
func (s *Service) CreateInterviewAndStart(ctx context.Context, req *types.CreateInterviewRequest, userID string) (*types.SessionView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fromValidator(err)
	}

	texts, err := s.generator.Generate(ctx, req.GenerationParams())
	if err != nil {
		return nil, err
	}

	questions := make([]types.Question, len(texts))
	for i, text := range texts {
		questions[i] = types.Question{ID: uuid.NewString(), Text: text}
	}

	interview := &types.Interview{
		Title:             req.Title,
		Position:          req.Position,
		TechStack:         req.TechStack,
		Type:              req.Type,
		Difficulty:        req.Difficulty,
		NumberOfQuestions: req.NumberOfQuestions,
		Questions:         questions,
		CreatedAt:         s.now(),
		CreatedBy:         userID,
	}
	if err := s.store.CreateInterview(ctx, interview); err != nil {
		return nil, persistence("create interview", err)
	}
	s.logger.Info("interview created",
		zap.String("interview_id", interview.ID),
		zap.String("user_id", userID),
		zap.Int("questions", len(questions)))

	return s.start(ctx, interview, userID)
}

func (s *Service) start(ctx context.Context, interview *types.Interview, userID string) (*types.SessionView, error) {
	sess := &types.InterviewSession{
		InterviewID: interview.ID,
		UserID:      userID,
		StartedAt:   s.now(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		if errors.Is(err, ErrDuplicateAttempt) {
			return nil, &ConflictError{InterviewID: interview.ID, UserID: userID}
		}
		return nil, persistence("create session", err)
	}
	s.metrics.SessionStarted()
	s.logger.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("interview_id", interview.ID),
		zap.String("user_id", userID))

	return &types.SessionView{
		ID:        sess.ID,
		Interview: interview,
		StartedAt: sess.StartedAt,
	}, nil
}

// PreviewInterview returns an interview with its questions.
func (s *Service) PreviewInterview(ctx context.Context, interviewID string) (*types.Interview, error) {
	interview, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, persistence("get interview", err)
	}
	if interview == nil {
		return nil, &NotFoundError{Resource: "interview", ID: interviewID}
	}
	return interview, nil
}

// RecordCompletion scores transcript and attaches the feedback to the session.
// Scoring an already completed session replaces its feedback.
func (s *Service) RecordCompletion(ctx context.Context, sessionID string, transcript []types.TranscriptMessage) (*types.Feedback, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, persistence("get session", err)
	}
	if sess == nil {
		return nil, &NotFoundError{Resource: "session", ID: sessionID}
	}
	if sess.CompletedAt != nil {
		s.logger.Info("re-scoring completed session",
			zap.String("session_id", sessionID),
			zap.Time("previous_completed_at", *sess.CompletedAt))
	}

	feedback, err := s.evaluator.Evaluate(ctx, transcript)
	if err != nil {
		return nil, err
	}

	if err := s.store.CompleteSession(ctx, sess.ID, feedback, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Resource: "session", ID: sessionID}
		}
		return nil, persistence("complete session", err)
	}
	s.metrics.SessionCompleted()
	s.logger.Info("session completed",
		zap.String("session_id", sessionID),
		zap.Int("turns", len(transcript)),
		zap.Float64("average", feedback.Scores.Average()))

	return feedback, nil
}

// SessionWithInterview loads a session together with its interview.
func (s *Service) SessionWithInterview(ctx context.Context, sessionID string) (*types.InterviewSession, *types.Interview, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, persistence("get session", err)
	}
	if sess == nil {
		return nil, nil, &NotFoundError{Resource: "session", ID: sessionID}
	}

	interview, err := s.store.GetInterview(ctx, sess.InterviewID)
	if err != nil {
		return nil, nil, persistence("get interview", err)
	}
	if interview == nil {
		return nil, nil, &NotFoundError{Resource: "interview", ID: sess.InterviewID}
	}
	return sess, interview, nil
}

// FetchResults returns a session's feedback (nil until scored) and its interview.
func (s *Service) FetchResults(ctx context.Context, sessionID string) (*types.Results, error) {
	sess, interview, err := s.SessionWithInterview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &types.Results{Feedback: sess.Feedback, Interview: interview}, nil
}

// ListSessionsForUser returns the user's sessions, newest first, each joined
// with its interview. Sessions whose interview is gone are dropped. When
// withSummary is set the summary covers every session of the user, not just
// the returned page.
func (s *Service) ListSessionsForUser(ctx context.Context, userID string, limit int, withSummary bool) (*types.SessionList, error) {
	sessions, err := s.store.ListSessionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, persistence("list sessions", err)
	}

	interviews, err := s.joinInterviews(ctx, sessions)
	if err != nil {
		return nil, err
	}

	items := make([]types.SessionListItem, 0, len(sessions))
	for _, sess := range sessions {
		interview, ok := interviews[sess.InterviewID]
		if !ok {
			s.logger.Warn("dropping session with missing interview",
				zap.String("session_id", sess.ID),
				zap.String("interview_id", sess.InterviewID))
			continue
		}
		items = append(items, types.SessionListItem{
			ID:          sess.ID,
			StartedAt:   sess.StartedAt,
			CompletedAt: sess.CompletedAt,
			Score:       sess.Score(),
			Interview:   interview.Card(),
		})
	}

	list := &types.SessionList{Sessions: items}
	if !withSummary {
		return list, nil
	}

	all := sessions
	if limit > 0 {
		all, err = s.store.ListSessionsByUser(ctx, userID, 0)
		if err != nil {
			return nil, persistence("list sessions", err)
		}
	}
	list.Summary = Summarize(all)
	return list, nil
}

// Summarize counts completed sessions and averages the per-session mean score.
// Unscored sessions add 0 to the sum but count in the denominator.
func Summarize(sessions []*types.InterviewSession) *types.SessionSummary {
	summary := &types.SessionSummary{}
	if len(sessions) == 0 {
		return summary
	}

	var sum float64
	for _, sess := range sessions {
		if sess.CompletedAt != nil {
			summary.CompletedCount++
		}
		if sess.Feedback != nil {
			sum += sess.Feedback.Scores.Average()
		}
	}
	summary.AverageScore = int(math.Round(sum / float64(len(sessions))))
	return summary
}

// joinInterviews loads the distinct interviews referenced by sessions.
// Missing interviews are simply absent from the result.
func (s *Service) joinInterviews(ctx context.Context, sessions []*types.InterviewSession) (map[string]*types.Interview, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]*types.Interview)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinConcurrency)

	seen := make(map[string]struct{})
	for _, sess := range sessions {
		id := sess.InterviewID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			interview, err := s.store.GetInterview(gctx, id)
			if err != nil {
				return persistence("get interview", err)
			}
			if interview != nil {
				mu.Lock()
				out[id] = interview
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DiscoverInterviews pages through interviews the user neither created nor attempted.
func (s *Service) DiscoverInterviews(ctx context.Context, userID string, page int) (*types.DiscoverPage, error) {
	if page < 1 {
		return nil, &ValidationError{Field: "page", Message: "page must be a positive integer"}
	}

	attempted, err := s.store.AttemptedInterviewIDs(ctx, userID)
	if err != nil {
		return nil, persistence("list attempted interviews", err)
	}

	interviews, total, err := s.store.ListInterviews(ctx, InterviewFilter{
		ExcludeCreator: userID,
		ExcludeIDs:     attempted,
		Offset:         (page - 1) * DiscoverPageSize,
		Limit:          DiscoverPageSize,
	})
	if err != nil {
		return nil, persistence("list interviews", err)
	}

	data := make([]types.InterviewCard, len(interviews))
	for i, interview := range interviews {
		data[i] = interview.Card()
	}
	return &types.DiscoverPage{
		Data:       data,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / DiscoverPageSize)),
	}, nil
}
