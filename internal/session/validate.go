package session

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldMessages holds the client-facing message per request field and tag.
var fieldMessages = map[string]map[string]string{
	"Title":             {"min": "Title must be at least 3 characters"},
	"Position":          {"min": "Position is required"},
	"TechStack":         {"min": "Select at least one tech"},
	"Type":              {"oneof": "Invalid interview type"},
	"Difficulty":        {"oneof": "Invalid difficulty"},
	"NumberOfQuestions": {"min": "Number of questions must be at least 1", "max": "Number of questions must be at most 10"},
}

// fromValidator converts the first validator failure into a ValidationError.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	field := fe.StructField()
	jsonField := strings.ToLower(field[:1]) + field[1:]
	if msg, ok := fieldMessages[field][fe.Tag()]; ok {
		return &ValidationError{Field: jsonField, Message: msg}
	}
	return &ValidationError{Field: jsonField, Message: "Missing required fields"}
}
