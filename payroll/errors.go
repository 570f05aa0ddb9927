package payroll

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLegalConfiguration is returned when no active legal
	// parameter set exists for the period's year. Fatal: nothing can be
	// priced without it.
	ErrMissingLegalConfiguration = errors.New("missing legal configuration for payroll period")

	// ErrInvalidPeriod is returned when the period predates the contract
	// start or postdates its termination. Recoverable input error.
	ErrInvalidPeriod = errors.New("payroll period outside contract dates")

	// ErrNotApprovable is returned when approving a record that is not in
	// the Calculated state.
	ErrNotApprovable = errors.New("only calculated payroll records can be approved")

	// ErrNotFound is returned for an unknown payroll record.
	ErrNotFound = errors.New("payroll record not found")
)

// InvalidPeriodError reports why the period was rejected.
type InvalidPeriodError struct {
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid payroll period: %s", e.Reason)
}

func (e *InvalidPeriodError) Unwrap() error {
	return ErrInvalidPeriod
}
