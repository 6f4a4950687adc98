package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evaluation struct {
	Scores      map[string]float64 `json:"scores"`
	Suggestions []string           `json:"suggestions"`
}

func TestExtract_Success(t *testing.T) {
	client := NewStaticClient("```json\n[\"Q1\", \"Q2\"]\n```")

	got, err := Extract[[]string](context.Background(), client, "prompt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, got)
	assert.Equal(t, []string{"prompt"}, client.Prompts())
}

func TestExtract_Object(t *testing.T) {
	client := NewStaticClient(`{"scores": {"culturalFit": 82}, "suggestions": ["Slow down."]}`)

	got, err := Extract[evaluation](context.Background(), client, "p")
	require.NoError(t, err)
	assert.Equal(t, 82.0, got.Scores["culturalFit"])
	assert.Equal(t, []string{"Slow down."}, got.Suggestions)
}

func TestExtract_AnyPreservesShape(t *testing.T) {
	client := NewStaticClient(`["a", 1]`)

	got, err := Extract[any](context.Background(), client, "p")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", 1.0}, got)
}

func TestExtract_EmptyResponse(t *testing.T) {
	_, err := Extract[[]string](context.Background(), NewStaticClient(""), "p")

	var emptyErr *EmptyResponseError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, Provider("static"), emptyErr.Provider)
}

func TestExtract_MalformedResponse(t *testing.T) {
	raw := "Sure! Here are your questions: 1. What is Go?"
	_, err := Extract[[]string](context.Background(), NewStaticClient(raw), "p")

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Raw)
	assert.Contains(t, err.Error(), "format error")
}

func TestExtract_WhitespaceOnlyIsMalformed(t *testing.T) {
	_, err := Extract[[]string](context.Background(), NewStaticClient("  \n "), "p")

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestExtract_ProviderFailurePropagates(t *testing.T) {
	cause := errors.New("quota exceeded")
	_, err := Extract[[]string](context.Background(), NewFailingClient(cause), "p")
	assert.ErrorIs(t, err, cause)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract[[]string](ctx, NewStaticClient(`[]`), "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstrument_RecordsOutcomes(t *testing.T) {
	metrics := observability.NewMetrics()

	ok := Instrument(NewStaticClient(`[]`), metrics, "generate_questions")
	_, err := ok.GenerateText(context.Background(), "p")
	require.NoError(t, err)

	empty := Instrument(NewStaticClient(), metrics, "generate_questions")
	_, err = empty.GenerateText(context.Background(), "p")
	require.NoError(t, err)

	failing := Instrument(NewFailingClient(errors.New("boom")), metrics, "evaluate_transcript")
	_, err = failing.GenerateText(context.Background(), "p")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCalls.WithLabelValues("generate_questions", observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCalls.WithLabelValues("generate_questions", observability.OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMCalls.WithLabelValues("evaluate_transcript", observability.OutcomeError)))
	assert.Equal(t, Provider("static"), ok.Provider())
}

func TestInstrument_NilMetrics(t *testing.T) {
	client := NewStaticClient()
	assert.Same(t, client, Instrument(client, nil, "op").(*StaticClient))
}

func TestStaticClient_RepeatsLastReply(t *testing.T) {
	client := NewStaticClient("first", "second")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, want := range []string{"first", "second", "second"} {
		got, err := client.GenerateText(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
