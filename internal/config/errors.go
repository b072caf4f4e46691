// Where: internal/config/errors.go
// What: Typed configuration errors.
// Why: Let the CLI map credential problems to a distinguished exit code.
package config

import "fmt"

// ConfigurationError reports a missing, malformed, or incomplete
// credentials file. It is terminal; nothing is retried.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func wrapConfigError(message string, err error) error {
	return &ConfigurationError{Message: message, Err: err}
}
