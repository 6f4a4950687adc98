package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_InterviewTemplates(t *testing.T) {
	ClearCache()

	for _, key := range []string{KeyGenerateQuestions, KeyEvaluateTranscript, KeyInterviewerSystem, KeyInterviewerFirstMessage} {
		t.Run(key, func(t *testing.T) {
			tmpl, err := Get(InterviewFile, key)
			require.NoError(t, err)
			assert.NotEmpty(t, tmpl)
		})
	}
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(InterviewFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet(InterviewFile, KeyGenerateQuestions))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Hello {{.Name}}",
			data:     map[string]string{"Name": "Ada"},
			want:     "Hello Ada",
		},
		{
			name:     "repeated placeholder",
			template: "{{.X}} and {{.X}}",
			data:     map[string]string{"X": "y"},
			want:     "y and y",
		},
		{
			name:     "missing value left alone",
			template: "{{.A}} {{.B}}",
			data:     map[string]string{"A": "1"},
			want:     "1 {{.B}}",
		},
		{
			name:     "voice variables untouched",
			template: "Ask: {{questions}} as {{.Role}}",
			data:     map[string]string{"Role": "lead"},
			want:     "Ask: {{questions}} as lead",
		},
		{
			name:     "nil data",
			template: "static",
			data:     nil,
			want:     "static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestRender_GenerateQuestions(t *testing.T) {
	ClearCache()

	out, err := Render(KeyGenerateQuestions, map[string]string{
		"Type":       "technical",
		"Position":   "Backend Engineer",
		"Count":      "5",
		"TechStack":  "Go, Redis",
		"Difficulty": "hard",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "technical")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "exactly 5")
	assert.Contains(t, out, "Go, Redis")
	assert.NotContains(t, out, "{{.")
}

func TestRender_InterviewerSystemKeepsVariable(t *testing.T) {
	ClearCache()

	out, err := Render(KeyInterviewerSystem, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "{{questions}}")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List(InterviewFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		KeyEvaluateTranscript,
		KeyGenerateQuestions,
		KeyInterviewerFirstMessage,
		KeyInterviewerSystem,
	}, keys)
}
