// Package servo is the client of one DSY-RS servo drive.
//
// A Client wraps a slave context of the bus manager and exposes typed
// operations over the parameter schema: control and motion settings,
// multi-segment positioning, homing, communication setup, auxiliary
// triggers and status monitoring.
//
// Every value is encoded and range-checked before any frame is sent.
// Composite operations (ConfigureSegment, ApplyHomingConfig and the other
// Apply methods) validate all their writes first and then issue them in a
// fixed order; a failure part way through is reported as a *StepError
// naming the write that failed and how many had completed.
//
// Reads are idempotent and retried on transport failures. Writes are not
// blindly repeated: after a timeout the register is read back and the
// write is only resent when the drive does not already hold the value.
package servo
