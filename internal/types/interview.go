// Package types provides the domain types shared by the interview lifecycle, the stores and the HTTP API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// InterviewType is the flavour of questions an interview asks.
type InterviewType string

// Interview types accepted by the generator.
const (
	InterviewTechnical  InterviewType = "technical"
	InterviewBehavioral InterviewType = "behavioral"
	InterviewMix        InterviewType = "mix"
)

// Valid reports whether t is a known interview type.
func (t InterviewType) Valid() bool {
	switch t {
	case InterviewTechnical, InterviewBehavioral, InterviewMix:
		return true
	}
	return false
}

// Difficulty is the requested difficulty of generated questions.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MaxQuestions is the largest question count a caller may request.
const MaxQuestions = 10

// Question is a single generated interview question. Owned by its Interview.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Interview is a reusable question template for a role and skill combination.
// The question list is fixed at creation time.
type Interview struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Position          string        `json:"position"`
	TechStack         []string      `json:"techStack"`
	Type              InterviewType `json:"type"`
	Difficulty        Difficulty    `json:"difficulty"`
	NumberOfQuestions int           `json:"numberOfQuestions"`
	Questions         []Question    `json:"questions"`
	CreatedAt         time.Time     `json:"createdAt"`
	CreatedBy         string        `json:"createdBy"`
}

// QuestionTexts returns the question texts in interview order.
func (i *Interview) QuestionTexts() []string {
	texts := make([]string, len(i.Questions))
	for idx, q := range i.Questions {
		texts[idx] = q.Text
	}
	return texts
}

// Card returns the interview without its questions, as shown in listings.
func (i *Interview) Card() InterviewCard {
	return InterviewCard{
		ID:                i.ID,
		Title:             i.Title,
		Position:          i.Position,
		TechStack:         i.TechStack,
		Type:              i.Type,
		Difficulty:        i.Difficulty,
		NumberOfQuestions: i.NumberOfQuestions,
		CreatedAt:         i.CreatedAt,
	}
}

// InterviewCard is the question-less projection of an Interview used by listings.
type InterviewCard struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Position          string        `json:"position,omitempty"`
	TechStack         []string      `json:"techStack"`
	Type              InterviewType `json:"type"`
	Difficulty        Difficulty    `json:"difficulty,omitempty"`
	NumberOfQuestions int           `json:"numberOfQuestions"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// CreateInterviewRequest is the body of POST /interviews/new.
type CreateInterviewRequest struct {
	Title             string        `json:"title" validate:"required,min=3"`
	Position          string        `json:"position" validate:"required,min=2"`
	TechStack         []string      `json:"techStack" validate:"required,min=1,dive,required"`
	Type              InterviewType `json:"type" validate:"required,oneof=technical behavioral mix"`
	Difficulty        Difficulty    `json:"difficulty" validate:"required,oneof=easy medium hard"`
	NumberOfQuestions int           `json:"numberOfQuestions" validate:"required,min=1,max=10"`
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Normalize trims surrounding whitespace from the free-text fields.
func (r *CreateInterviewRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Position = strings.TrimSpace(r.Position)
	stack := make([]string, 0, len(r.TechStack))
	for _, tech := range r.TechStack {
		if tech = strings.TrimSpace(tech); tech != "" {
			stack = append(stack, tech)
		}
	}
	r.TechStack = stack
}

// GenerationParams returns the subset of the request the question generator needs.
func (r *CreateInterviewRequest) GenerationParams() GenerationParams {
	return GenerationParams{
		Position:   r.Position,
		TechStack:  r.TechStack,
		Type:       r.Type,
		Difficulty: r.Difficulty,
		Count:      r.NumberOfQuestions,
	}
}

// GenerationParams are the inputs of question generation.
type GenerationParams struct {
	Position   string
	TechStack  []string
	Type       InterviewType
	Difficulty Difficulty
	Count      int
}
