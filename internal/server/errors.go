// Package server provides the HTTP API of the interview service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PrintfR/HardCode/internal/evaluation"
	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/questions"
	"github.com/PrintfR/HardCode/internal/session"
)

// AuthenticationError indicates a missing or rejected credential.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// ErrUserNotFound indicates the token subject has no user record.
type ErrUserNotFound struct {
	UserID string
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		authErr       *AuthenticationError
		userErr       *ErrUserNotFound
		validationErr *session.ValidationError
		notFoundErr   *session.NotFoundError
		conflictErr   *session.ConflictError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.As(err, &userErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// isUpstreamFormat reports whether err is a model reply that failed shape
// checks. The raw reply is logged where it is parsed.
func isUpstreamFormat(err error) bool {
	var (
		questionsErr  *questions.InvalidFormatError
		evaluationErr *evaluation.InvalidFormatError
		malformedErr  *llm.MalformedResponseError
		emptyErr      *llm.EmptyResponseError
	)
	return errors.As(err, &questionsErr) ||
		errors.As(err, &evaluationErr) ||
		errors.As(err, &malformedErr) ||
		errors.As(err, &emptyErr)
}
