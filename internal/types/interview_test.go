//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateInterviewRequest {
	return CreateInterviewRequest{
		Title:             "Backend Engineer Practice",
		Position:          "Backend Engineer",
		TechStack:         []string{"Go", "PostgreSQL"},
		Type:              InterviewTechnical,
		Difficulty:        DifficultyMedium,
		NumberOfQuestions: 5,
	}
}

func TestCreateInterviewRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *CreateInterviewRequest)
		wantErr bool
		errMsg  string
	}{
		{name: "valid request", mutate: func(*CreateInterviewRequest) {}},
		{
			name:    "title too short",
			mutate:  func(r *CreateInterviewRequest) { r.Title = "Go" },
			wantErr: true,
			errMsg:  "Title",
		},
		{
			name:    "position too short",
			mutate:  func(r *CreateInterviewRequest) { r.Position = "X" },
			wantErr: true,
			errMsg:  "Position",
		},
		{
			name:    "empty tech stack",
			mutate:  func(r *CreateInterviewRequest) { r.TechStack = []string{} },
			wantErr: true,
			errMsg:  "TechStack",
		},
		{
			name:    "unknown type",
			mutate:  func(r *CreateInterviewRequest) { r.Type = "trivia" },
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name:    "unknown difficulty",
			mutate:  func(r *CreateInterviewRequest) { r.Difficulty = "brutal" },
			wantErr: true,
			errMsg:  "Difficulty",
		},
		{
			name:    "zero questions",
			mutate:  func(r *CreateInterviewRequest) { r.NumberOfQuestions = 0 },
			wantErr: true,
			errMsg:  "NumberOfQuestions",
		},
		{
			name:    "too many questions",
			mutate:  func(r *CreateInterviewRequest) { r.NumberOfQuestions = MaxQuestions + 1 },
			wantErr: true,
			errMsg:  "NumberOfQuestions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateInterviewRequest_Normalize(t *testing.T) {
	req := CreateInterviewRequest{
		Title:     "  Frontend Round  ",
		Position:  " Frontend Dev ",
		TechStack: []string{" React ", "", "  ", "TypeScript"},
	}
	req.Normalize()

	assert.Equal(t, "Frontend Round", req.Title)
	assert.Equal(t, "Frontend Dev", req.Position)
	assert.Equal(t, []string{"React", "TypeScript"}, req.TechStack)
}

func TestCreateInterviewRequest_GenerationParams(t *testing.T) {
	req := validCreateRequest()
	params := req.GenerationParams()

	assert.Equal(t, "Backend Engineer", params.Position)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, params.TechStack)
	assert.Equal(t, InterviewTechnical, params.Type)
	assert.Equal(t, DifficultyMedium, params.Difficulty)
	assert.Equal(t, 5, params.Count)
}

func TestInterviewType_Valid(t *testing.T) {
	assert.True(t, InterviewTechnical.Valid())
	assert.True(t, InterviewBehavioral.Valid())
	assert.True(t, InterviewMix.Valid())
	assert.False(t, InterviewType("").Valid())
	assert.False(t, InterviewType("Technical").Valid())
}

func TestDifficulty_Valid(t *testing.T) {
	assert.True(t, DifficultyEasy.Valid())
	assert.True(t, DifficultyHard.Valid())
	assert.False(t, Difficulty("extreme").Valid())
}

func TestInterview_CardAndQuestionTexts(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iv := &Interview{
		ID:                "iv-1",
		Title:             "Go Deep Dive",
		Position:          "Engineer",
		TechStack:         []string{"Go"},
		Type:              InterviewMix,
		Difficulty:        DifficultyHard,
		NumberOfQuestions: 2,
		Questions:         []Question{{ID: "q1", Text: "What is a goroutine?"}, {ID: "q2", Text: "Explain channels."}},
		CreatedAt:         created,
		CreatedBy:         "user-1",
	}

	assert.Equal(t, []string{"What is a goroutine?", "Explain channels."}, iv.QuestionTexts())

	card := iv.Card()
	assert.Equal(t, "iv-1", card.ID)
	assert.Equal(t, 2, card.NumberOfQuestions)
	assert.Equal(t, created, card.CreatedAt)

	data, err := json.Marshal(card)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "questions")
	assert.Contains(t, string(data), `"techStack":["Go"]`)
}
