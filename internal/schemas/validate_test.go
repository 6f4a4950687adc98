package schemas

import (
	"errors"
	"testing"

	rawschemas "github.com/PrintfR/HardCode/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Questions(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{name: "valid list", value: []interface{}{"Q1", "Q2"}},
		{name: "empty list", value: []interface{}{}},
		{name: "blank entry", value: []interface{}{"Q1", " \t"}, wantErr: true},
		{name: "non string entry", value: []interface{}{"Q1", 2.0}, wantErr: true},
		{name: "object", value: map[string]interface{}{"q": "Q1"}, wantErr: true},
		{name: "string", value: "Q1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(rawschemas.Questions, tt.value)
			if tt.wantErr {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
				assert.NotEmpty(t, verr.Errors)
				assert.Equal(t, rawschemas.Questions, verr.Schema)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Evaluation(t *testing.T) {
	scores := func() map[string]interface{} {
		return map[string]interface{}{
			"communicationSkills":  80.0,
			"technicalKnowledge":   70.0,
			"problemSolving":       60.0,
			"culturalFit":          90.0,
			"confidenceAndClarity": 75.0,
		}
	}

	t.Run("valid", func(t *testing.T) {
		err := Validate(rawschemas.Evaluation, map[string]interface{}{
			"scores":      scores(),
			"suggestions": []interface{}{"Be concise."},
		})
		assert.NoError(t, err)
	})

	t.Run("string score", func(t *testing.T) {
		s := scores()
		s["culturalFit"] = "90"
		err := Validate(rawschemas.Evaluation, map[string]interface{}{"scores": s, "suggestions": []interface{}{}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "culturalFit")
	})

	t.Run("missing suggestions", func(t *testing.T) {
		err := Validate(rawschemas.Evaluation, map[string]interface{}{"scores": scores()})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "suggestions")
	})

	t.Run("blank suggestion", func(t *testing.T) {
		err := Validate(rawschemas.Evaluation, map[string]interface{}{
			"scores":      scores(),
			"suggestions": []interface{}{""},
		})
		assert.Error(t, err)
	})
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []interface{}{})
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nope", loadErr.Name)
	assert.NotNil(t, errors.Unwrap(loadErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Ada"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)

	err = ValidateJSONString(`{not json`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "questions",
		Errors: []FieldError{{Field: "0", Message: "Invalid type"}},
	}
	assert.Contains(t, err.Error(), "questions validation failed")
	assert.Contains(t, err.Error(), "1. 0: Invalid type")
}
