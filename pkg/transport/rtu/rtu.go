// Package rtu implements bus.Transport over a Modbus RTU serial line using
// github.com/simonvetter/modbus.
package rtu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/simonvetter/modbus"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// DefaultTimeout is the reply timeout used when Config.Timeout is zero.
const DefaultTimeout = 100 * time.Millisecond

// Config describes the serial line.
type Config struct {
	// Port is the serial device, e.g. /dev/ttyUSB0.
	Port string

	Baud     uint
	DataBits uint

	// Parity is "N", "E" or "O".
	Parity   string
	StopBits uint

	// Timeout bounds the wait for one reply frame.
	Timeout time.Duration
}

// DefaultConfig returns 115200 8N1 with the default timeout.
func DefaultConfig(port string) Config {
	return Config{
		Port:     port,
		Baud:     115200,
		DataBits: 8,
		Parity:   "N",
		StopBits: 1,
		Timeout:  DefaultTimeout,
	}
}

func (c Config) client() (*modbus.ClientConfiguration, error) {
	if c.Port == "" {
		return nil, errors.New("serial port is required")
	}
	parity, err := parityOf(c.Parity)
	if err != nil {
		return nil, err
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &modbus.ClientConfiguration{
		URL:      "rtu://" + c.Port,
		Speed:    c.Baud,
		DataBits: c.DataBits,
		Parity:   parity,
		StopBits: c.StopBits,
		Timeout:  timeout,
	}, nil
}

func parityOf(s string) (uint, error) {
	switch strings.ToUpper(s) {
	case "", "N", "NONE":
		return modbus.PARITY_NONE, nil
	case "E", "EVEN":
		return modbus.PARITY_EVEN, nil
	case "O", "ODD":
		return modbus.PARITY_ODD, nil
	default:
		return 0, fmt.Errorf("unknown parity %q (want N, E or O)", s)
	}
}

// client is the subset of *modbus.ModbusClient used here.
type client interface {
	Open() error
	Close() error
	SetUnitId(id uint8) error
	ReadRegisters(addr, quantity uint16, regType modbus.RegType) ([]uint16, error)
	WriteRegister(addr, value uint16) error
	WriteRegisters(addr uint16, values []uint16) error
}

// Transport is an open RTU line. Requests are serialized internally; the bus
// manager serializes them anyway.
type Transport struct {
	mu     sync.Mutex
	mc     client
	closed bool
}

var _ bus.Transport = (*Transport)(nil)

// Open configures and opens the serial port.
func Open(cfg Config) (*Transport, error) {
	mcfg, err := cfg.client()
	if err != nil {
		return nil, err
	}
	mc, err := modbus.NewClient(mcfg)
	if err != nil {
		return nil, fmt.Errorf("create modbus client: %w", err)
	}
	return open(mc)
}

func open(mc client) (*Transport, error) {
	if err := mc.Open(); err != nil {
		return nil, fmt.Errorf("open serial port: %w", err)
	}
	return &Transport{mc: mc}, nil
}

// Close closes the serial port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.mc.Close()
}

// ReadRegisters reads holding registers (function 0x03).
func (t *Transport) ReadRegisters(ctx context.Context, slave uint8, addr register.Address, count uint16) ([]uint16, error) {
	var words []uint16
	err := t.do(ctx, slave, func() error {
		var err error
		words, err = t.mc.ReadRegisters(uint16(addr), count, modbus.HOLDING_REGISTER)
		return err
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// WriteRegisters writes one register with function 0x06 or several with
// function 0x10. Broadcast writes get no reply, so a timeout on them is
// success.
func (t *Transport) WriteRegisters(ctx context.Context, slave uint8, addr register.Address, words []uint16) error {
	err := t.do(ctx, slave, func() error {
		if len(words) == 1 {
			return t.mc.WriteRegister(uint16(addr), words[0])
		}
		return t.mc.WriteRegisters(uint16(addr), words)
	})
	if slave == bus.BroadcastID && errors.Is(err, bus.ErrTransportTimeout) {
		return nil
	}
	return err
}

func (t *Transport) do(ctx context.Context, slave uint8, fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return fmt.Errorf("%w: port closed", bus.ErrTransport)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", bus.ErrTransportTimeout, err)
	}
	if err := t.mc.SetUnitId(slave); err != nil {
		return mapError(err)
	}
	return mapError(fn())
}

// mapError sorts library errors into the bus error classes.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, modbus.ErrRequestTimedOut):
		return fmt.Errorf("%w: %w", bus.ErrTransportTimeout, err)
	default:
		return fmt.Errorf("%w: %w", bus.ErrTransport, err)
	}
}
