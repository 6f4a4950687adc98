package types

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// SessionState is the lifecycle state of an InterviewSession.
type SessionState string

// Session states. Completed is terminal.
const (
	StateStarted   SessionState = "started"
	StateCompleted SessionState = "completed"
)

// InterviewSession is one user's single attempt at one Interview.
type InterviewSession struct {
	ID          string     `json:"id"`
	InterviewID string     `json:"interviewId"`
	UserID      string     `json:"userId"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Feedback    *Feedback  `json:"feedback,omitempty"`
}

// State derives the lifecycle state from the attached feedback.
func (s *InterviewSession) State() SessionState {
	if s.Feedback != nil && s.CompletedAt != nil {
		return StateCompleted
	}
	return StateStarted
}

// Score returns the rounded mean of the five scores, or nil when unscored.
func (s *InterviewSession) Score() *int {
	if s.Feedback == nil {
		return nil
	}
	score := int(math.Round(s.Feedback.Scores.Average()))
	return &score
}

// Scores holds the five evaluation dimensions, each in [0, 100].
type Scores struct {
	CommunicationSkills  float64 `json:"communicationSkills"`
	TechnicalKnowledge   float64 `json:"technicalKnowledge"`
	ProblemSolving       float64 `json:"problemSolving"`
	CulturalFit          float64 `json:"culturalFit"`
	ConfidenceAndClarity float64 `json:"confidenceAndClarity"`
}

// ScoreMin and ScoreMax bound every score dimension.
const (
	ScoreMin = 0
	ScoreMax = 100
)

// Average returns the unrounded mean of the five dimensions.
func (s Scores) Average() float64 {
	return (s.CommunicationSkills +
		s.TechnicalKnowledge +
		s.ProblemSolving +
		s.CulturalFit +
		s.ConfidenceAndClarity) / 5
}

// Named returns the dimensions in display order.
func (s Scores) Named() []NamedScore {
	return []NamedScore{
		{Name: "communicationSkills", Label: "Communication Skills", Value: s.CommunicationSkills},
		{Name: "technicalKnowledge", Label: "Technical Knowledge", Value: s.TechnicalKnowledge},
		{Name: "problemSolving", Label: "Problem Solving", Value: s.ProblemSolving},
		{Name: "culturalFit", Label: "Cultural Fit", Value: s.CulturalFit},
		{Name: "confidenceAndClarity", Label: "Confidence and Clarity", Value: s.ConfidenceAndClarity},
	}
}

// CheckRange returns an error naming the first dimension outside [0, 100].
func (s Scores) CheckRange() error {
	for _, named := range s.Named() {
		if named.Value < ScoreMin || named.Value > ScoreMax || math.IsNaN(named.Value) {
			return fmt.Errorf("score %s out of range [%d, %d]: %v", named.Name, ScoreMin, ScoreMax, named.Value)
		}
	}
	return nil
}

// NamedScore is one labelled score dimension.
type NamedScore struct {
	Name  string
	Label string
	Value float64
}

// Feedback is the scored evaluation attached to a completed session.
type Feedback struct {
	Scores      Scores   `json:"scores"`
	Suggestions []string `json:"suggestions"`
}

// TranscriptMessage is one finalized turn of the interview conversation.
type TranscriptMessage struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// AnalyzeRequest is the body of POST /interviews/{id}/analyze.
type AnalyzeRequest struct {
	Transcript []TranscriptMessage `json:"transcript" validate:"required,dive"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SessionView is a session joined with its full interview, returned by the start routes.
type SessionView struct {
	ID          string     `json:"id"`
	Interview   *Interview `json:"interview"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Feedback    *Feedback  `json:"feedback,omitempty"`
}

// SessionListItem is one row of a user's session history.
type SessionListItem struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Score       *int          `json:"score"`
	Interview   InterviewCard `json:"interview"`
}

// SessionSummary aggregates a user's history for the dashboard.
type SessionSummary struct {
	CompletedCount int `json:"completedCount"`
	AverageScore   int `json:"averageScore"`
}

// SessionList is the response of the session listing.
type SessionList struct {
	Sessions []SessionListItem `json:"sessions"`
	Summary  *SessionSummary   `json:"summary,omitempty"`
}

// Results pairs a session's feedback with its interview.
type Results struct {
	Feedback  *Feedback  `json:"feedback"`
	Interview *Interview `json:"interview"`
}

// DiscoverPage is one page of attemptable interviews.
type DiscoverPage struct {
	Data       []InterviewCard `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}
