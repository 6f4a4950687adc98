// Package questions turns interview parameters into an ordered list of
// generated interview questions.
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/prompts"
	"github.com/PrintfR/HardCode/internal/schemas"
	"github.com/PrintfR/HardCode/internal/types"
	rawschemas "github.com/PrintfR/HardCode/schemas"
	"go.uber.org/zap"
)

// Operation labels generator calls in metrics.
const Operation = "generate_questions"

// Generator produces interview questions with a generative model.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator returns a Generator backed by client.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger.Named("questions")}
}

// BuildPrompt renders the generation prompt for params.
func BuildPrompt(params types.GenerationParams) (string, error) {
	return prompts.Render(prompts.KeyGenerateQuestions, map[string]string{
		"Type":       string(params.Type),
		"Position":   params.Position,
		"Count":      strconv.Itoa(params.Count),
		"TechStack":  strings.Join(params.TechStack, ", "),
		"Difficulty": string(params.Difficulty),
	})
}

// Generate asks the model for params.Count questions and returns them in the
// order the model produced them. The count is requested, not enforced.
func (g *Generator) Generate(ctx context.Context, params types.GenerationParams) ([]string, error) {
	prompt, err := BuildPrompt(params)
	if err != nil {
		return nil, err
	}

	payload, err := llm.Extract[any](ctx, g.client, prompt)
	if err != nil {
		var malformed *llm.MalformedResponseError
		if errors.As(err, &malformed) {
			g.logger.Error("question reply is not JSON", zap.String("raw", malformed.Raw))
		}
		return nil, err
	}

	if err := schemas.Validate(rawschemas.Questions, payload); err != nil {
		g.logger.Error("question reply failed validation",
			zap.Any("payload", payload),
			zap.Error(err))
		return nil, &InvalidFormatError{Message: "expected an array of non-empty strings", Cause: err}
	}

	questions, err := decode(payload)
	if err != nil {
		return nil, &InvalidFormatError{Message: "failed to decode questions", Cause: err}
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			g.logger.Error("question reply has a blank entry", zap.Int("index", i), zap.String("value", q))
			return nil, &InvalidFormatError{Message: "expected an array of non-empty strings"}
		}
	}

	if len(questions) != params.Count {
		g.logger.Warn("question count differs from request",
			zap.Int("requested", params.Count),
			zap.Int("received", len(questions)))
	}
	return questions, nil
}

func decode(payload any) ([]string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
