package llm

import "fmt"

// EmptyResponseError is returned when the backend produced no text.
type EmptyResponseError struct {
	Provider Provider
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from %s", e.Provider)
}

// MalformedResponseError is returned when the cleaned reply is not valid JSON
// for the requested type. Raw holds the unmodified reply.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model response format error: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ProviderError wraps a failure of the remote call itself.
type ProviderError struct {
	Provider Provider
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
