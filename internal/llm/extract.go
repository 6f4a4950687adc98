package llm

import (
	"context"
	"encoding/json"
)

// Extract sends prompt through client once and decodes the cleaned reply into T.
// It does not validate the shape of the result and never retries.
func Extract[T any](ctx context.Context, client Client, prompt string) (T, error) {
	var zero T

	raw, err := client.GenerateText(ctx, prompt)
	if err != nil {
		return zero, err
	}
	if raw == "" {
		return zero, &EmptyResponseError{Provider: client.Provider()}
	}

	var out T
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &out); err != nil {
		return zero, &MalformedResponseError{Raw: raw, Cause: err}
	}
	return out, nil
}
