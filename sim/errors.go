package sim

import (
	"errors"
	"fmt"

	"github.com/tracesim/tracesim/sim/kernel"
)

// ErrInvalidConfiguration is matched (errors.Is) by every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidKernel is returned when trace generation samples from a
// transition row that is not a probability distribution.
var ErrInvalidKernel = kernel.ErrInvalidKernel

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

func configErr(field string, value any, format string, args ...any) error {
	return &ConfigError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}
