package ats

import "fmt"

// ConfigError reports an invalid vocabulary, weight set or threshold.
// It is returned at construction time; scoring itself never fails.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ats config error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("ats config error: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
