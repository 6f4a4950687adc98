package questions

import "fmt"

// InvalidFormatError is returned when the model reply decodes but is not a list
// of non-blank question strings.
type InvalidFormatError struct {
	Message string
	Cause   error
}

func (e *InvalidFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid question format: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid question format: %s", e.Message)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Cause
}
