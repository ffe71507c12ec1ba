package log

import (
	"strings"
	"time"
)

// Event is one entry of the bus trace. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp is when the transaction finished (or the lifecycle change happened).
	Timestamp time.Time `cbor:"1,keyasint"`

	// BusID identifies the bus manager (UUID), so traces of several ports
	// can be merged.
	BusID string `cbor:"2,keyasint"`

	// Port is the physical port name, if known.
	Port string `cbor:"3,keyasint,omitempty"`

	// SlaveID is the Modbus unit address the event belongs to.
	SlaveID uint8 `cbor:"4,keyasint"`

	Category Category `cbor:"5,keyasint"`

	// One of these is set, depending on Category.
	Transaction *TransactionEvent `cbor:"10,keyasint,omitempty"`
	Slave       *SlaveEvent       `cbor:"11,keyasint,omitempty"`

	// Error is set for failed transactions and for bus-level errors.
	Error *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Failed reports whether the event carries an error.
func (e Event) Failed() bool { return e.Error != nil }

// Category classifies the event.
type Category uint8

const (
	// CategoryTransaction is a register read or write.
	CategoryTransaction Category = 0
	// CategorySlave is a slave context being registered or released.
	CategorySlave Category = 1
	// CategoryError is an error not tied to a single transaction.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransaction:
		return "TRANSACTION"
	case CategorySlave:
		return "SLAVE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Op is the register operation of a transaction.
type Op uint8

const (
	OpRead  Op = 0
	OpWrite Op = 1
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// ParseOp parses "read" or "write" (any case).
func ParseOp(s string) (Op, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r":
		return OpRead, true
	case "write", "w":
		return OpWrite, true
	}
	return 0, false
}

// Outcome is how a transaction ended.
type Outcome uint8

const (
	OutcomeOK Outcome = 0
	// OutcomeTimeout means the slave did not answer within the bus timeout.
	OutcomeTimeout Outcome = 1
	// OutcomeError is any other transport failure.
	OutcomeError Outcome = 2
	// OutcomeDropped means the caller gave up before the request reached
	// the wire; nothing was sent.
	OutcomeDropped Outcome = 3
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeTimeout:
		return "TIMEOUT"
	case OutcomeError:
		return "ERROR"
	case OutcomeDropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// TransactionEvent describes one register transaction.
type TransactionEvent struct {
	Op Op `cbor:"1,keyasint"`

	// Address is the first register address.
	Address uint16 `cbor:"2,keyasint"`

	// Count is the number of registers requested or written.
	Count uint16 `cbor:"3,keyasint"`

	// Words holds the written words, or the words read back on success.
	Words []uint16 `cbor:"4,keyasint,omitempty"`

	Outcome Outcome `cbor:"5,keyasint"`

	// Seq is the manager's transaction sequence number.
	Seq uint64 `cbor:"6,keyasint"`

	// QueueWait is the time spent waiting for the bus, in nanoseconds.
	QueueWait time.Duration `cbor:"7,keyasint,omitempty"`

	// Duration is the time spent on the wire, in nanoseconds.
	Duration time.Duration `cbor:"8,keyasint,omitempty"`
}

// SlaveAction is a slave context lifecycle change.
type SlaveAction uint8

const (
	SlaveRegistered SlaveAction = 0
	SlaveReleased   SlaveAction = 1
)

// String returns the action name.
func (a SlaveAction) String() string {
	switch a {
	case SlaveRegistered:
		return "REGISTERED"
	case SlaveReleased:
		return "RELEASED"
	default:
		return "UNKNOWN"
	}
}

// SlaveEvent captures slave context lifecycle changes.
type SlaveEvent struct {
	Action SlaveAction `cbor:"1,keyasint"`
}

// ErrorEventData captures an error.
type ErrorEventData struct {
	Message string `cbor:"1,keyasint"`

	// Context describes what was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
