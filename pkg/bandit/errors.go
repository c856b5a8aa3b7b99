package bandit

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidState is matched by every *InvalidStateError.
	ErrInvalidState = errors.New("invalid state")
	// ErrNoRegions is returned by Select when given no regions.
	ErrNoRegions = errors.New("no regions to select from")
)

// ConfigurationError reports a rejected Initialize argument. The engine
// state is untouched when it is returned.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("bandit: %s=%d: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidStateError reports an operation that is not allowed in the
// engine's current state. Nothing is mutated when it is returned.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("bandit: %s not allowed in %s state", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
