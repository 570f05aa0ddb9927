package legal

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - use with errors.Is()
// =============================================================================

var (
	// ErrConfigurationNotFound is returned when no active parameter set
	// exists for the requested year. Fatal for any dependent computation.
	ErrConfigurationNotFound = errors.New("no active legal configuration for year")

	// ErrNotFound is returned when a parameter set id does not exist.
	ErrNotFound = errors.New("legal parameter set not found")

	// ErrInvariantViolation is returned when more than one parameter set is
	// marked active. This indicates upstream data corruption; the resolver
	// never repairs it silently.
	ErrInvariantViolation = errors.New("legal configuration invariant violated")
)

// =============================================================================
// STRUCTURED ERRORS - carry additional context
// =============================================================================

// ConfigurationNotFoundError reports which year had no active configuration.
type ConfigurationNotFoundError struct {
	Year int
}

func (e *ConfigurationNotFoundError) Error() string {
	return fmt.Sprintf("no active legal configuration for year %d", e.Year)
}

func (e *ConfigurationNotFoundError) Unwrap() error {
	return ErrConfigurationNotFound
}

// InvariantViolationError reports the ids of the conflicting active sets.
type InvariantViolationError struct {
	ActiveIDs []string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("expected exactly one active legal configuration, found %d: %v",
		len(e.ActiveIDs), e.ActiveIDs)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}
