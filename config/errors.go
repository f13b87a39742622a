package config

import "fmt"

// InvalidConfigError reports a configuration value that cannot be used to build a field.
type InvalidConfigError struct {
	Field  string // yaml path of the offending value
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *InvalidConfigError {
	return &InvalidConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
