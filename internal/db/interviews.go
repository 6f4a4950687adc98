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

var _ session.Store = (*DB)(nil)

const interviewColumns = `id, title, position, tech_stack, type, difficulty,
	number_of_questions, questions, created_at, created_by`

// CreateInterview inserts interview and assigns its ID.
func (db *DB) CreateInterview(ctx context.Context, interview *types.Interview) error {
	owner, ok := parseID(interview.CreatedBy)
	if !ok {
		return fmt.Errorf("invalid interview owner %q", interview.CreatedBy)
	}
	techStack, err := json.Marshal(nonNil(interview.TechStack))
	if err != nil {
		return fmt.Errorf("failed to marshal tech stack: %w", err)
	}
	questions, err := json.Marshal(nonNil(interview.Questions))
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews (`+interviewColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, interview.Title, interview.Position, techStack, string(interview.Type),
		string(interview.Difficulty), interview.NumberOfQuestions, questions,
		interview.CreatedAt, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	interview.ID = id.String()
	return nil
}

// GetInterview retrieves an interview by ID. Unknown and malformed ids yield nil.
func (db *DB) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	interviewID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	row := db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, interviewID)
	interview, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

// ListInterviews returns one page of interviews matching filter, newest first,
// with the total number of matches.
func (db *DB) ListInterviews(ctx context.Context, filter session.InterviewFilter) ([]*types.Interview, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if owner, ok := parseID(filter.ExcludeCreator); ok {
		where += fmt.Sprintf(" AND created_by <> $%d", argNum)
		args = append(args, owner)
		argNum++
	}
	if excluded := parseIDs(filter.ExcludeIDs); len(excluded) > 0 {
		where += fmt.Sprintf(" AND NOT (id = ANY($%d))", argNum)
		args = append(args, excluded)
		argNum++
	}

	var total int64
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interviews`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	query := `SELECT ` + interviewColumns + ` FROM interviews` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []*types.Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, interview)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, total, nil
}

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var (
		interview      types.Interview
		id, owner      uuid.UUID
		kind, level    string
		techStackBytes []byte
		questionsBytes []byte
	)
	err := row.Scan(&id, &interview.Title, &interview.Position, &techStackBytes, &kind, &level,
		&interview.NumberOfQuestions, &questionsBytes, &interview.CreatedAt, &owner)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(techStackBytes, &interview.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech stack: %w", err)
	}
	if err := json.Unmarshal(questionsBytes, &interview.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	interview.ID = id.String()
	interview.CreatedBy = owner.String()
	interview.Type = types.InterviewType(kind)
	interview.Difficulty = types.Difficulty(level)
	interview.CreatedAt = interview.CreatedAt.UTC()
	return &interview, nil
}

func parseIDs(ids []string) []uuid.UUID {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, ok := parseID(id); ok {
			parsed = append(parsed, u)
		}
	}
	return parsed
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
