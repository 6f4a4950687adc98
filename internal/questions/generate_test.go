package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func params(count int) types.GenerationParams {
	return types.GenerationParams{
		Position:   "Frontend Engineer",
		TechStack:  []string{"React", "TypeScript"},
		Type:       types.InterviewMix,
		Difficulty: types.DifficultyEasy,
		Count:      count,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(params(3))
	require.NoError(t, err)

	assert.Contains(t, prompt, "mix")
	assert.Contains(t, prompt, "Frontend Engineer")
	assert.Contains(t, prompt, "exactly 3")
	assert.Contains(t, prompt, "React, TypeScript")
	assert.Contains(t, prompt, "easy")
	assert.Contains(t, prompt, "JSON array")
}

func TestGenerate_Success(t *testing.T) {
	client := llm.NewStaticClient("```json\n[\"What is JSX?\", \"Explain hooks.\"]\n```")
	g := NewGenerator(client, zap.NewNop())

	got, err := g.Generate(context.Background(), params(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"What is JSX?", "Explain hooks."}, got)
	require.Len(t, client.Prompts(), 1)
}

func TestGenerate_CountMismatchIsWarned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := NewGenerator(llm.NewStaticClient(`["Only one"]`), zap.New(core))

	got, err := g.Generate(context.Background(), params(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"Only one"}, got)
	assert.Equal(t, 1, logs.FilterMessage("question count differs from request").Len())
}

func TestGenerate_InvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "object", reply: `{"questions": ["a"]}`},
		{name: "blank entry", reply: `["a", "  "]`},
		{name: "no-break space entry", reply: `["a", "\u00a0"]`},
		{name: "ideographic space entry", reply: `["a", "\u3000"]`},
		{name: "line separator entry", reply: `["a", "\u2028 "]`},
		{name: "number entry", reply: `["a", 3]`},
		{name: "string", reply: `"a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			g := NewGenerator(llm.NewStaticClient(tt.reply), zap.New(core))

			_, err := g.Generate(context.Background(), params(2))
			var formatErr *InvalidFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestGenerate_EmptyList(t *testing.T) {
	g := NewGenerator(llm.NewStaticClient(`[]`), nil)

	got, err := g.Generate(context.Background(), params(2))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerate_MalformedReplyLogsRaw(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	g := NewGenerator(llm.NewStaticClient("1. What is Go?"), zap.New(core))

	_, err := g.Generate(context.Background(), params(1))
	var malformed *llm.MalformedResponseError
	require.ErrorAs(t, err, &malformed)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "1. What is Go?", entries[0].ContextMap()["raw"])
}

func TestGenerate_EmptyReply(t *testing.T) {
	g := NewGenerator(llm.NewStaticClient(""), nil)

	_, err := g.Generate(context.Background(), params(1))
	var empty *llm.EmptyResponseError
	assert.ErrorAs(t, err, &empty)
}

func TestGenerate_ProviderError(t *testing.T) {
	cause := errors.New("unavailable")
	g := NewGenerator(llm.NewFailingClient(cause), nil)

	_, err := g.Generate(context.Background(), params(1))
	assert.ErrorIs(t, err, cause)
}
