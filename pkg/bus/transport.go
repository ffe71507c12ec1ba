package bus

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Modbus limits on registers per request.
const (
	MaxReadCount  = 125
	MaxWriteCount = 123

	// BroadcastID addresses every slave on the line. No reply is sent.
	BroadcastID uint8 = 0

	// MaxSlaveID is the highest individual slave address.
	MaxSlaveID uint8 = 247
)

// Transport is the blocking register capability of one physical port.
// It performs no retries. Implementations should honor ctx deadlines and
// return errors wrapping ErrTransportTimeout or ErrTransport.
type Transport interface {
	ReadRegisters(ctx context.Context, slave uint8, addr register.Address, count uint16) ([]uint16, error)
	WriteRegisters(ctx context.Context, slave uint8, addr register.Address, words []uint16) error
}

// AsyncTransport is the suspend-style register capability: operations
// start immediately and complete through the returned Call.
type AsyncTransport interface {
	StartRead(ctx context.Context, slave uint8, addr register.Address, count uint16) *Call
	StartWrite(ctx context.Context, slave uint8, addr register.Address, words []uint16) *Call
}

// Call is a pending register operation.
type Call struct {
	done  chan struct{}
	words []uint16
	err   error
}

func newCall() *Call { return &Call{done: make(chan struct{})} }

// CompletedCall returns a Call that is already finished.
func CompletedCall(words []uint16, err error) *Call {
	c := newCall()
	c.complete(words, err)
	return c
}

// complete must be called exactly once.
func (c *Call) complete(words []uint16, err error) {
	c.words, c.err = words, err
	close(c.done)
}

// Done is closed when the call has finished.
func (c *Call) Done() <-chan struct{} { return c.done }

// Result blocks until the call finishes and returns its outcome.
// For writes the word slice is nil.
func (c *Call) Result() ([]uint16, error) {
	<-c.done
	return c.words, c.err
}

// Wait is like Result but gives up when ctx is done. Giving up does not
// cancel the underlying operation.
func (c *Call) Wait(ctx context.Context) ([]uint16, error) {
	select {
	case <-c.done:
		return c.words, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Spawn adapts a blocking Transport to the AsyncTransport model by running
// each operation on its own goroutine.
func Spawn(t Transport) AsyncTransport { return spawned{t} }

type spawned struct{ t Transport }

func (s spawned) StartRead(ctx context.Context, slave uint8, addr register.Address, count uint16) *Call {
	c := newCall()
	go func() { c.complete(s.t.ReadRegisters(ctx, slave, addr, count)) }()
	return c
}

func (s spawned) StartWrite(ctx context.Context, slave uint8, addr register.Address, words []uint16) *Call {
	c := newCall()
	go func() { c.complete(nil, s.t.WriteRegisters(ctx, slave, addr, words)) }()
	return c
}

// Await adapts an AsyncTransport to the blocking Transport model. A call
// returns only once the operation has finished, so the port is never
// shared; an operation that outlives ctx fails with ErrTransportTimeout.
func Await(a AsyncTransport) Transport { return awaited{a} }

type awaited struct{ a AsyncTransport }

func (w awaited) ReadRegisters(ctx context.Context, slave uint8, addr register.Address, count uint16) ([]uint16, error) {
	return settle(ctx, w.a.StartRead(ctx, slave, addr, count))
}

func (w awaited) WriteRegisters(ctx context.Context, slave uint8, addr register.Address, words []uint16) error {
	_, err := settle(ctx, w.a.StartWrite(ctx, slave, addr, words))
	return err
}

func settle(ctx context.Context, c *Call) ([]uint16, error) {
	select {
	case <-c.done:
		return c.words, c.err
	case <-ctx.Done():
		<-c.done
		return nil, fmt.Errorf("%w: %w", ErrTransportTimeout, ctx.Err())
	}
}

var (
	_ AsyncTransport = spawned{}
	_ Transport      = awaited{}
)
