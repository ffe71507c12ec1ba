package bus

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Slave is the logical context of one slave address on a Manager.
// A Slave must not be used from two call sites concurrently; the Manager
// serializes the wire, not the callers.
type Slave struct {
	m        *Manager
	id       uint8
	released atomic.Bool
}

// ID returns the slave address.
func (s *Slave) ID() uint8 { return s.id }

// Broadcast reports whether this is the broadcast context.
func (s *Slave) Broadcast() bool { return s.id == BroadcastID }

// Released reports whether Release has been called.
func (s *Slave) Released() bool { return s.released.Load() }

// Release relinquishes the context.
func (s *Slave) Release() error { return s.m.Release(s) }

// Read reads count registers starting at addr, blocking until the
// transaction completes or ctx is done.
func (s *Slave) Read(ctx context.Context, addr register.Address, count uint16) ([]uint16, error) {
	return s.ReadAsync(ctx, addr, count).Wait(ctx)
}

// Write writes words starting at addr, blocking until the transaction
// completes or ctx is done.
func (s *Slave) Write(ctx context.Context, addr register.Address, words []uint16) error {
	_, err := s.WriteAsync(ctx, addr, words).Wait(ctx)
	return err
}

// ReadAsync queues a read and returns its pending Call.
func (s *Slave) ReadAsync(ctx context.Context, addr register.Address, count uint16) *Call {
	if err := s.check(); err != nil {
		return CompletedCall(nil, err)
	}
	if s.Broadcast() {
		return CompletedCall(nil, ErrBroadcastRead)
	}
	if count == 0 || count > MaxReadCount || int(addr)+int(count) > 0x10000 {
		return CompletedCall(nil, fmt.Errorf("%w: read %d registers at %s", ErrInvalidRequest, count, addr))
	}
	return s.m.submit(&request{
		ctx:   ctx,
		slave: s.id,
		op:    log.OpRead,
		addr:  addr,
		count: count,
		call:  newCall(),
	})
}

// WriteAsync queues a write and returns its pending Call. The words are
// copied; the caller may reuse the slice.
func (s *Slave) WriteAsync(ctx context.Context, addr register.Address, words []uint16) *Call {
	if err := s.check(); err != nil {
		return CompletedCall(nil, err)
	}
	n := len(words)
	if n == 0 || n > MaxWriteCount || int(addr)+n > 0x10000 {
		return CompletedCall(nil, fmt.Errorf("%w: write %d registers at %s", ErrInvalidRequest, n, addr))
	}
	return s.m.submit(&request{
		ctx:   ctx,
		slave: s.id,
		op:    log.OpWrite,
		addr:  addr,
		count: uint16(n),
		words: slices.Clone(words),
		call:  newCall(),
	})
}

func (s *Slave) check() error {
	if s.released.Load() {
		return fmt.Errorf("%w: slave %d", ErrContextReleased, s.id)
	}
	return nil
}
