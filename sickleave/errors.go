package sickleave

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("sick leave record not found")

	// ErrInvalidTransition is returned for a workflow move the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid sick leave state transition")

	// ErrCancelReasonRequired blocks cancellation without a reason.
	ErrCancelReasonRequired = errors.New("cancellation requires a reason")

	// ErrActiveProrogation blocks finalizing a record while a prorogation
	// descendant is still open.
	ErrActiveProrogation = errors.New("record has an open prorogation")

	// ErrProrogationCycle is returned when predecessor pointers loop.
	// Indicates corrupt upstream data.
	ErrProrogationCycle = errors.New("prorogation chain contains a cycle")
)

// TransitionError details a rejected workflow move.
type TransitionError struct {
	From   State
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a sick leave in state %q", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
