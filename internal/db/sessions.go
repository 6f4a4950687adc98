package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, interview_id, user_id, started_at, completed_at,
	communication_skills, technical_knowledge, problem_solving, cultural_fit,
	confidence_and_clarity, suggestions`

// CreateSession inserts sess and assigns its ID. A second session for the same
// interview and user fails with session.ErrDuplicateAttempt.
func (db *DB) CreateSession(ctx context.Context, sess *types.InterviewSession) error {
	interviewID, ok := parseID(sess.InterviewID)
	if !ok {
		return fmt.Errorf("invalid interview id %q", sess.InterviewID)
	}
	userID, ok := parseID(sess.UserID)
	if !ok {
		return fmt.Errorf("invalid user id %q", sess.UserID)
	}

	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, interview_id, user_id, started_at)
		 VALUES ($1, $2, $3, $4)`,
		id, interviewID, userID, sess.StartedAt,
	)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return session.ErrDuplicateAttempt
		case codeForeignKeyViolation:
			return fmt.Errorf("session references unknown interview or user: %w", err)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	sess.ID = id.String()
	return nil
}

// GetSession retrieves a session by ID. Unknown and malformed ids yield nil.
func (db *DB) GetSession(ctx context.Context, id string) (*types.InterviewSession, error) {
	sessionID, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return db.getSession(ctx, `SELECT `+sessionColumns+` FROM interview_sessions WHERE id = $1`, sessionID)
}

// FindSession returns the session of userID on interviewID, or nil.
func (db *DB) FindSession(ctx context.Context, interviewID, userID string) (*types.InterviewSession, error) {
	iid, ok := parseID(interviewID)
	if !ok {
		return nil, nil
	}
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	return db.getSession(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE interview_id = $1 AND user_id = $2`,
		iid, uid)
}

func (db *DB) getSession(ctx context.Context, query string, args ...any) (*types.InterviewSession, error) {
	sess, err := scanSession(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// CompleteSession attaches feedback and sets completed_at, replacing any
// earlier feedback.
func (db *DB) CompleteSession(ctx context.Context, id string, feedback *types.Feedback, completedAt time.Time) error {
	sessionID, ok := parseID(id)
	if !ok {
		return session.ErrNotFound
	}
	if err := feedback.Scores.CheckRange(); err != nil {
		return fmt.Errorf("reject feedback: %w", err)
	}
	suggestions, err := json.Marshal(nonNil(feedback.Suggestions))
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	s := feedback.Scores
	result, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET completed_at = $2, communication_skills = $3, technical_knowledge = $4,
		     problem_solving = $5, cultural_fit = $6, confidence_and_clarity = $7,
		     suggestions = $8
		 WHERE id = $1`,
		sessionID, completedAt, s.CommunicationSkills, s.TechnicalKnowledge,
		s.ProblemSolving, s.CulturalFit, s.ConfidenceAndClarity, suggestions,
	)
	if err != nil {
		if pgCode(err) == codeCheckViolation {
			return fmt.Errorf("reject feedback: %w", err)
		}
		return fmt.Errorf("failed to complete session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// ListSessionsByUser returns the user's sessions, newest start first. A limit
// of zero or less returns every session.
func (db *DB) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*types.InterviewSession, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}

	query := `SELECT ` + sessionColumns + ` FROM interview_sessions
		WHERE user_id = $1 ORDER BY started_at DESC, id DESC`
	args := []any{uid}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.InterviewSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// AttemptedInterviewIDs returns the ids of every interview the user has a session for.
func (db *DB) AttemptedInterviewIDs(ctx context.Context, userID string) ([]string, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT interview_id FROM interview_sessions WHERE user_id = $1 ORDER BY interview_id`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempted interviews: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan interview id: %w", err)
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func scanSession(row pgx.Row) (*types.InterviewSession, error) {
	var (
		sess                types.InterviewSession
		id, interview, user uuid.UUID
		completedAt         *time.Time
		comm, tech, problem *float64
		culture, confidence *float64
		suggestionsBytes    []byte
	)
	err := row.Scan(&id, &interview, &user, &sess.StartedAt, &completedAt,
		&comm, &tech, &problem, &culture, &confidence, &suggestionsBytes)
	if err != nil {
		return nil, err
	}

	sess.ID = id.String()
	sess.InterviewID = interview.String()
	sess.UserID = user.String()
	sess.StartedAt = sess.StartedAt.UTC()
	if completedAt != nil {
		t := completedAt.UTC()
		sess.CompletedAt = &t
	}
	if comm != nil && tech != nil && problem != nil && culture != nil && confidence != nil {
		sess.Feedback = &types.Feedback{
			Scores: types.Scores{
				CommunicationSkills:  *comm,
				TechnicalKnowledge:   *tech,
				ProblemSolving:       *problem,
				CulturalFit:          *culture,
				ConfidenceAndClarity: *confidence,
			},
			Suggestions: []string{},
		}
		if len(suggestionsBytes) > 0 {
			if err := json.Unmarshal(suggestionsBytes, &sess.Feedback.Suggestions); err != nil {
				return nil, fmt.Errorf("decode suggestions: %w", err)
			}
		}
	}
	return &sess, nil
}
