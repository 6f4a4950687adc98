package voice

import (
	"fmt"
	"strings"

	"github.com/PrintfR/HardCode/internal/prompts"
)

// QuestionsVariable is the assistant variable that carries the question list.
const QuestionsVariable = "questions"

// AssistantConfig describes the voice interviewer handed to the call SDK.
type AssistantConfig struct {
	Name         string      `json:"name"`
	FirstMessage string      `json:"firstMessage"`
	Transcriber  Transcriber `json:"transcriber"`
	Voice        Voice       `json:"voice"`
	Model        Model       `json:"model"`
}

// Transcriber selects the speech-to-text engine.
type Transcriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// Voice selects and tunes the text-to-speech voice.
type Voice struct {
	Provider        string  `json:"provider"`
	VoiceID         string  `json:"voiceId"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
	Speed           float64 `json:"speed"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"useSpeakerBoost"`
}

// Model is the conversational model and its seed messages.
type Model struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

// ModelMessage is one seed message of the conversational model.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewAssistantConfig builds the interviewer assistant from the embedded prompts.
// The system prompt keeps the {{questions}} placeholder for the call SDK to fill.
func NewAssistantConfig() (*AssistantConfig, error) {
	system, err := prompts.Get(prompts.InterviewFile, prompts.KeyInterviewerSystem)
	if err != nil {
		return nil, fmt.Errorf("load interviewer prompt: %w", err)
	}
	first, err := prompts.Get(prompts.InterviewFile, prompts.KeyInterviewerFirstMessage)
	if err != nil {
		return nil, fmt.Errorf("load interviewer first message: %w", err)
	}

	return &AssistantConfig{
		Name:         "Interviewer",
		FirstMessage: first,
		Transcriber: Transcriber{
			Provider: "deepgram",
			Model:    "nova-2",
			Language: "en",
		},
		Voice: Voice{
			Provider:        "11labs",
			VoiceID:         "sarah",
			Stability:       0.4,
			SimilarityBoost: 0.8,
			Speed:           0.9,
			Style:           0.5,
			UseSpeakerBoost: true,
		},
		Model: Model{
			Provider: "openai",
			Model:    "gpt-4",
			Messages: []ModelMessage{{Role: "system", Content: system}},
		},
	}, nil
}

// VariableValues renders questions as "- q" lines under QuestionsVariable.
func VariableValues(questions []string) map[string]string {
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = "- " + q
	}
	return map[string]string{QuestionsVariable: strings.Join(lines, "\n")}
}
