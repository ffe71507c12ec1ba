package bus

import (
	"errors"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Transport failures. Transport implementations should wrap their errors
// with one of these; anything else is wrapped in ErrTransport by the Manager.
var (
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransport        = errors.New("transport error")
)

// Bus management misuse.
var (
	ErrDuplicateSlave  = errors.New("slave already registered")
	ErrInvalidSlaveID  = errors.New("invalid slave id")
	ErrContextReleased = errors.New("slave context released")
	ErrBroadcastRead   = errors.New("broadcast address is write-only")
	ErrInvalidRequest  = errors.New("invalid register request")
	ErrBusClosed       = errors.New("bus closed")
)

// TransactionError tags a transport failure with the transaction it hit.
type TransactionError struct {
	Op      log.Op
	Slave   uint8
	Address register.Address
	Count   uint16
	Err     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("bus: %s slave %d %s x%d: %v", e.Op, e.Slave, e.Address, e.Count, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTransportTimeout) }
