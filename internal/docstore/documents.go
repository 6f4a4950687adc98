package docstore

import (
	"time"

	"github.com/PrintfR/HardCode/internal/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type questionDoc struct {
	ID   string `bson:"id"`
	Text string `bson:"text"`
}

type interviewDoc struct {
	ID                primitive.ObjectID `bson:"_id"`
	Title             string             `bson:"title"`
	Position          string             `bson:"position"`
	TechStack         []string           `bson:"techStack"`
	Type              string             `bson:"type"`
	Difficulty        string             `bson:"difficulty"`
	NumberOfQuestions int                `bson:"numberOfQuestions"`
	Questions         []questionDoc      `bson:"questions"`
	CreatedAt         time.Time          `bson:"createdAt"`
	CreatedBy         primitive.ObjectID `bson:"createdBy"`
}

func (d *interviewDoc) toInterview() *types.Interview {
	questions := make([]types.Question, len(d.Questions))
	for i, q := range d.Questions {
		questions[i] = types.Question{ID: q.ID, Text: q.Text}
	}
	return &types.Interview{
		ID:                d.ID.Hex(),
		Title:             d.Title,
		Position:          d.Position,
		TechStack:         d.TechStack,
		Type:              types.InterviewType(d.Type),
		Difficulty:        types.Difficulty(d.Difficulty),
		NumberOfQuestions: d.NumberOfQuestions,
		Questions:         questions,
		CreatedAt:         d.CreatedAt.UTC(),
		CreatedBy:         d.CreatedBy.Hex(),
	}
}

type scoresDoc struct {
	CommunicationSkills  float64 `bson:"communicationSkills"`
	TechnicalKnowledge   float64 `bson:"technicalKnowledge"`
	ProblemSolving       float64 `bson:"problemSolving"`
	CulturalFit          float64 `bson:"culturalFit"`
	ConfidenceAndClarity float64 `bson:"confidenceAndClarity"`
}

type feedbackDoc struct {
	Scores      scoresDoc `bson:"scores"`
	Suggestions []string  `bson:"suggestions"`
}

func newFeedbackDoc(fb *types.Feedback) *feedbackDoc {
	suggestions := fb.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return &feedbackDoc{
		Scores: scoresDoc{
			CommunicationSkills:  fb.Scores.CommunicationSkills,
			TechnicalKnowledge:   fb.Scores.TechnicalKnowledge,
			ProblemSolving:       fb.Scores.ProblemSolving,
			CulturalFit:          fb.Scores.CulturalFit,
			ConfidenceAndClarity: fb.Scores.ConfidenceAndClarity,
		},
		Suggestions: suggestions,
	}
}

type sessionDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	InterviewID primitive.ObjectID `bson:"interviewId"`
	UserID      primitive.ObjectID `bson:"userId"`
	StartedAt   time.Time          `bson:"startedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty"`
	Feedback    *feedbackDoc       `bson:"feedback,omitempty"`
}

func (d *sessionDoc) toSession() *types.InterviewSession {
	sess := &types.InterviewSession{
		ID:          d.ID.Hex(),
		InterviewID: d.InterviewID.Hex(),
		UserID:      d.UserID.Hex(),
		StartedAt:   d.StartedAt.UTC(),
	}
	if d.CompletedAt != nil {
		t := d.CompletedAt.UTC()
		sess.CompletedAt = &t
	}
	if d.Feedback != nil {
		suggestions := d.Feedback.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		sess.Feedback = &types.Feedback{
			Scores: types.Scores{
				CommunicationSkills:  d.Feedback.Scores.CommunicationSkills,
				TechnicalKnowledge:   d.Feedback.Scores.TechnicalKnowledge,
				ProblemSolving:       d.Feedback.Scores.ProblemSolving,
				CulturalFit:          d.Feedback.Scores.CulturalFit,
				ConfidenceAndClarity: d.Feedback.Scores.ConfidenceAndClarity,
			},
			Suggestions: suggestions,
		}
	}
	return sess
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	EmailKey  string             `bson:"emailKey"`
	Image     string             `bson:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDoc) toUser() *types.User {
	return &types.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Image:     d.Image,
		CreatedAt: d.CreatedAt.UTC(),
	}
}
