// Package evaluation scores an interview transcript with a generative model.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/prompts"
	"github.com/PrintfR/HardCode/internal/schemas"
	"github.com/PrintfR/HardCode/internal/types"
	rawschemas "github.com/PrintfR/HardCode/schemas"
	"go.uber.org/zap"
)

// Operation labels evaluator calls in metrics.
const Operation = "evaluate_transcript"

// Evaluator produces Feedback for a transcript.
type Evaluator struct {
	client llm.Client
	logger *zap.Logger
}

// NewEvaluator returns an Evaluator backed by client.
func NewEvaluator(client llm.Client, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{client: client, logger: logger.Named("evaluation")}
}

// FormatTranscript renders one "- role: content" line per message, in order.
func FormatTranscript(transcript []types.TranscriptMessage) string {
	var sb strings.Builder
	for _, msg := range transcript {
		sb.WriteString("- ")
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildPrompt renders the evaluation prompt for transcript.
func BuildPrompt(transcript []types.TranscriptMessage) (string, error) {
	return prompts.Render(prompts.KeyEvaluateTranscript, map[string]string{
		"Transcript": FormatTranscript(transcript),
	})
}

// Evaluate scores transcript. Scores are returned as produced; range checks
// happen when the feedback is stored.
func (e *Evaluator) Evaluate(ctx context.Context, transcript []types.TranscriptMessage) (*types.Feedback, error) {
	prompt, err := BuildPrompt(transcript)
	if err != nil {
		return nil, err
	}

	payload, err := llm.Extract[any](ctx, e.client, prompt)
	if err != nil {
		var malformed *llm.MalformedResponseError
		if errors.As(err, &malformed) {
			e.logger.Error("evaluation reply is not JSON", zap.String("raw", malformed.Raw))
		}
		return nil, err
	}

	if err := schemas.Validate(rawschemas.Evaluation, payload); err != nil {
		e.logger.Error("evaluation reply failed validation",
			zap.Any("payload", payload),
			zap.Error(err))
		return nil, &InvalidFormatError{Message: "expected five numeric scores and non-empty suggestions", Cause: err}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &InvalidFormatError{Message: "failed to re-encode evaluation", Cause: err}
	}
	var feedback types.Feedback
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, &InvalidFormatError{Message: "failed to decode evaluation", Cause: err}
	}
	for i, suggestion := range feedback.Suggestions {
		if strings.TrimSpace(suggestion) == "" {
			e.logger.Error("evaluation reply has a blank suggestion", zap.Int("index", i), zap.String("value", suggestion))
			return nil, &InvalidFormatError{Message: "expected five numeric scores and non-empty suggestions"}
		}
	}
	if feedback.Suggestions == nil {
		feedback.Suggestions = []string{}
	}
	return &feedback, nil
}
