package param

import "errors"

// Validation errors. All of them are raised before any register traffic.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrOutOfRange       = errors.New("value out of range")
	ErrUnknownVariant   = errors.New("unknown enum variant")
	ErrWordCount        = errors.New("wrong register word count")
	ErrKind             = errors.New("operation not valid for parameter kind")
	ErrReadOnly         = errors.New("parameter is read-only")
	ErrWriteOnly        = errors.New("parameter is write-only")
	ErrInvalidSegment   = errors.New("invalid segment number")

	// ErrSchema reports a malformed descriptor table.
	ErrSchema = errors.New("malformed parameter schema")
)
