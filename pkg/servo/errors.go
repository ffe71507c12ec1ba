package servo

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	ErrDeviceUnreachable = errors.New("device unreachable")
	ErrInvalidTerminal   = errors.New("invalid terminal")
)

// StepError reports a composite operation that failed part way through.
// Writes before Step were applied; the drive may hold a mix of old and new
// settings.
type StepError struct {
	// Op names the composite operation.
	Op string

	// Step is the 1-based position of the failed write.
	Step int

	// Param names the parameter of the failed write.
	Param string

	// Completed is the number of writes applied before the failure.
	Completed int

	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s) failed after %d completed: %v",
		e.Op, e.Step, e.Param, e.Completed, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
