package assistant

import "fmt"

// InputError reports a missing or unusable request field.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// APICallError wraps a failed LLM call.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("AI call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
