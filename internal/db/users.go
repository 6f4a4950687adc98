package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, COALESCE(image, ''), created_at`

// CreateUser inserts user and assigns its ID. Emails are unique regardless of case.
func (db *DB) CreateUser(ctx context.Context, user *types.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	var image *string
	if user.Image != "" {
		image = &user.Image
	}

	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, image, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, user.Name, user.Email, image, user.CreatedAt,
	)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("%w: %s", types.ErrEmailTaken, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id.String()
	return nil
}

// GetUserByID retrieves a user by ID. Unknown and malformed ids yield nil.
func (db *DB) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	if email == "" {
		return nil, nil
	}
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*types.User, error) {
	var (
		user types.User
		id   uuid.UUID
	)
	err := db.pool.QueryRow(ctx, query, arg).Scan(&id, &user.Name, &user.Email, &user.Image, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.ID = id.String()
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
