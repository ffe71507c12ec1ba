package sim

import (
	"fmt"
	"sync"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// WriteHook observes a write after it has been stored.
type WriteHook func(d *Drive, addr register.Address, words []uint16)

// Drive is the register map of one simulated slave.
type Drive struct {
	mu     sync.Mutex
	regs   map[register.Address]uint16
	strict map[register.Address]bool
	hooks  []WriteHook
}

func newDrive() *Drive {
	return &Drive{regs: make(map[register.Address]uint16)}
}

// Set stores words starting at addr.
func (d *Drive) Set(addr register.Address, words ...uint16) *Drive {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range words {
		d.regs[addr+register.Address(i)] = w
	}
	return d
}

// Get returns n words starting at addr.
func (d *Drive) Get(addr register.Address, n int) []uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uint16, n)
	for i := range out {
		out[i] = d.regs[addr+register.Address(i)]
	}
	return out
}

// Restrict limits the register map to addrs; other addresses answer with
// an illegal data address exception.
func (d *Drive) Restrict(addrs ...register.Address) *Drive {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.strict == nil {
		d.strict = make(map[register.Address]bool)
	}
	for _, a := range addrs {
		d.strict[a] = true
	}
	return d
}

// OnWrite registers a hook run after each successful write.
func (d *Drive) OnWrite(h WriteHook) *Drive {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
	return d
}

func (d *Drive) allowed(addr register.Address, n int) error {
	if d.strict == nil {
		return nil
	}
	for i := range n {
		if !d.strict[addr+register.Address(i)] {
			return fmt.Errorf("%w: %s", ErrIllegalDataAddress, addr+register.Address(i))
		}
	}
	return nil
}

func (d *Drive) read(addr register.Address, count uint16) ([]uint16, error) {
	d.mu.Lock()
	err := d.allowed(addr, int(count))
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return d.Get(addr, int(count)), nil
}

func (d *Drive) write(addr register.Address, words []uint16) error {
	d.mu.Lock()
	if err := d.allowed(addr, len(words)); err != nil {
		d.mu.Unlock()
		return err
	}
	for i, w := range words {
		d.regs[addr+register.Address(i)] = w
	}
	hooks := d.hooks
	d.mu.Unlock()

	for _, h := range hooks {
		h(d, addr, words)
	}
	return nil
}
