// Package sim is an in-memory DSY-RS register bank implementing
// bus.Transport. It backs the -simulate mode of dsyrsctl and serves as the
// recording test double for bus and servo tests.
package sim

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// ErrIllegalDataAddress is the exception reply for addresses outside a
// strict drive's register map.
var ErrIllegalDataAddress = errors.New("illegal data address")

// Call is one transaction as observed by the simulated line.
type Call struct {
	Slave   uint8
	Op      log.Op
	Address register.Address
	Count   uint16
	Words   []uint16
	Start   time.Time
	End     time.Time
	Err     error
}

// Fault makes matching transactions fail.
type Fault struct {
	Slave   uint8
	Op      log.Op
	Address register.Address

	// Err is returned to the caller.
	Err error

	// Times is how many matching transactions fail; 0 means forever.
	Times int

	// Commit applies a failing write anyway, as when a reply frame is lost
	// after the drive accepted the request.
	Commit bool
}

func (f Fault) matches(slave uint8, op log.Op, addr register.Address) bool {
	return f.Slave == slave && f.Op == op && f.Address == addr
}

// Option configures a Bus.
type Option func(*Bus)

// WithLatency delays every transaction by d.
func WithLatency(d time.Duration) Option {
	return func(b *Bus) { b.latency = d }
}

// Bus is a simulated RS-485 line with any number of drives.
type Bus struct {
	latency time.Duration

	mu          sync.Mutex
	drives      map[uint8]*Drive
	faults      []Fault
	calls       []Call
	inFlight    int
	maxInFlight int
}

// New returns an empty line.
func New(opts ...Option) *Bus {
	b := &Bus{drives: make(map[uint8]*Drive)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddDrive attaches a drive answering to id. Unset registers read as 0.
func (b *Bus) AddDrive(id uint8) *Drive {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := newDrive()
	b.drives[id] = d
	return d
}

// Drive returns the drive at id, or nil.
func (b *Bus) Drive(id uint8) *Drive {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drives[id]
}

// InjectFault adds a fault rule.
func (b *Bus) InjectFault(f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = append(b.faults, f)
}

// ClearFaults removes every fault rule.
func (b *Bus) ClearFaults() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = nil
}

// Calls returns the recorded transactions in the order they started.
func (b *Bus) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// Writes returns only the recorded successful writes.
func (b *Bus) Writes() []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Op == log.OpWrite && c.Err == nil {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded transactions.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
	b.maxInFlight = 0
}

// MaxInFlight returns the highest number of overlapping transactions seen.
// A correctly serialized line never exceeds 1.
func (b *Bus) MaxInFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxInFlight
}

// ReadRegisters implements bus.Transport.
func (b *Bus) ReadRegisters(ctx context.Context, slave uint8, addr register.Address, count uint16) ([]uint16, error) {
	idx, fault := b.begin(slave, log.OpRead, addr, count, nil)
	err := b.wait(ctx)

	var words []uint16
	if err == nil {
		err = fault.error()
	}
	if err == nil {
		d := b.Drive(slave)
		switch {
		case d == nil:
			err = fmt.Errorf("%w: no reply from slave %d", bus.ErrTransportTimeout, slave)
		default:
			words, err = d.read(addr, count)
		}
	}
	b.end(idx, words, err)
	return words, err
}

// WriteRegisters implements bus.Transport. Writes to slave 0 reach every drive.
func (b *Bus) WriteRegisters(ctx context.Context, slave uint8, addr register.Address, words []uint16) error {
	idx, fault := b.begin(slave, log.OpWrite, addr, uint16(len(words)), words)
	err := b.wait(ctx)

	if err == nil && (fault == nil || fault.f.Commit) {
		err = b.apply(slave, addr, words)
	}
	if err == nil {
		err = fault.error()
	}
	b.end(idx, nil, err)
	return err
}

func (b *Bus) apply(slave uint8, addr register.Address, words []uint16) error {
	if slave == bus.BroadcastID {
		b.mu.Lock()
		drives := make([]*Drive, 0, len(b.drives))
		for _, d := range b.drives {
			drives = append(drives, d)
		}
		b.mu.Unlock()
		for _, d := range drives {
			_ = d.write(addr, words)
		}
		return nil
	}
	d := b.Drive(slave)
	if d == nil {
		return fmt.Errorf("%w: no reply from slave %d", bus.ErrTransportTimeout, slave)
	}
	return d.write(addr, words)
}

type activeFault struct{ f Fault }

func (a *activeFault) error() error {
	if a == nil {
		return nil
	}
	return a.f.Err
}

func (b *Bus) begin(slave uint8, op log.Op, addr register.Address, count uint16, words []uint16) (int, *activeFault) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inFlight++
	b.maxInFlight = max(b.maxInFlight, b.inFlight)
	b.calls = append(b.calls, Call{
		Slave:   slave,
		Op:      op,
		Address: addr,
		Count:   count,
		Words:   slices.Clone(words),
		Start:   time.Now(),
	})

	var hit *activeFault
	for i := range b.faults {
		f := &b.faults[i]
		if !f.matches(slave, op, addr) {
			continue
		}
		hit = &activeFault{f: *f}
		if f.Times > 0 {
			f.Times--
			if f.Times == 0 {
				b.faults = slices.Delete(b.faults, i, i+1)
			}
		}
		break
	}
	return len(b.calls) - 1, hit
}

func (b *Bus) end(idx int, words []uint16, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
	c := &b.calls[idx]
	c.End = time.Now()
	c.Err = err
	if c.Op == log.OpRead {
		c.Words = slices.Clone(words)
	}
}

func (b *Bus) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return nil
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", bus.ErrTransportTimeout, ctx.Err())
	}
}

var _ bus.Transport = (*Bus)(nil)
