package flipbook

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid sequence configuration")

// ConfigurationError reports a construction-time setting that cannot produce a valid sequence.
// It is fatal to the instance being initialized.
type ConfigurationError struct {
	// Field is the configuration key that failed validation (e.g. "grid.columns").
	Field string
	// Reason describes why the value was rejected.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
