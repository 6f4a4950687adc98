package evaluation

import "fmt"

// InvalidFormatError is returned when the model reply decodes but lacks one of
// the five numeric scores or a list of non-blank suggestions.
type InvalidFormatError struct {
	Message string
	Cause   error
}

func (e *InvalidFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid evaluation format: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid evaluation format: %s", e.Message)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Cause
}
