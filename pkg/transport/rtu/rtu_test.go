package rtu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simonvetter/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
)

type fakeClient struct {
	unit    uint8
	units   []uint8
	regs    map[uint16]uint16
	err     error
	single  int
	multi   int
	opened  bool
	closed  int
	openErr error
}

func newFake() *fakeClient { return &fakeClient{regs: map[uint16]uint16{}} }

func (f *fakeClient) Open() error  { f.opened = true; return f.openErr }
func (f *fakeClient) Close() error { f.closed++; return nil }

func (f *fakeClient) SetUnitId(id uint8) error {
	f.unit = id
	f.units = append(f.units, id)
	return nil
}

func (f *fakeClient) ReadRegisters(addr, quantity uint16, regType modbus.RegType) ([]uint16, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]uint16, quantity)
	for i := range out {
		out[i] = f.regs[addr+uint16(i)]
	}
	return out, nil
}

func (f *fakeClient) WriteRegister(addr, value uint16) error {
	f.single++
	if f.err != nil {
		return f.err
	}
	f.regs[addr] = value
	return nil
}

func (f *fakeClient) WriteRegisters(addr uint16, values []uint16) error {
	f.multi++
	if f.err != nil {
		return f.err
	}
	for i, v := range values {
		f.regs[addr+uint16(i)] = v
	}
	return nil
}

func TestClientConfiguration(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	cfg.Parity = "e"
	cfg.Timeout = 0

	mc, err := cfg.client()
	require.NoError(t, err)
	assert.Equal(t, "rtu:///dev/ttyUSB0", mc.URL)
	assert.Equal(t, uint(115200), mc.Speed)
	assert.Equal(t, uint(8), mc.DataBits)
	assert.Equal(t, uint(modbus.PARITY_EVEN), mc.Parity)
	assert.Equal(t, uint(1), mc.StopBits)
	assert.Equal(t, DefaultTimeout, mc.Timeout)

	_, err = Config{}.client()
	assert.Error(t, err)
}

func TestParity(t *testing.T) {
	tests := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"", modbus.PARITY_NONE, true},
		{"N", modbus.PARITY_NONE, true},
		{"none", modbus.PARITY_NONE, true},
		{"E", modbus.PARITY_EVEN, true},
		{"odd", modbus.PARITY_ODD, true},
		{"M", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parityOf(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWrite(t *testing.T) {
	fc := newFake()
	tr, err := open(fc)
	require.NoError(t, err)
	assert.True(t, fc.opened)
	ctx := context.Background()

	require.NoError(t, tr.WriteRegisters(ctx, 3, 0x0D00, []uint16{0x2710, 0x0000}))
	assert.Equal(t, 1, fc.multi)
	require.NoError(t, tr.WriteRegisters(ctx, 3, 0x0007, []uint16{3000}))
	assert.Equal(t, 1, fc.single)

	words, err := tr.ReadRegisters(ctx, 3, 0x0D00, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x2710, 0x0000}, words)
	assert.Equal(t, []uint8{3, 3, 3}, fc.units)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.Equal(t, 1, fc.closed)

	_, err = tr.ReadRegisters(ctx, 3, 0, 1)
	assert.ErrorIs(t, err, bus.ErrTransport)
}

func TestErrorMapping(t *testing.T) {
	fc := newFake()
	tr, err := open(fc)
	require.NoError(t, err)
	ctx := context.Background()

	fc.err = modbus.ErrRequestTimedOut
	_, err = tr.ReadRegisters(ctx, 1, 0, 1)
	assert.ErrorIs(t, err, bus.ErrTransportTimeout)
	assert.ErrorIs(t, err, modbus.ErrRequestTimedOut)

	fc.err = modbus.ErrIllegalDataAddress
	_, err = tr.ReadRegisters(ctx, 1, 0, 1)
	assert.ErrorIs(t, err, bus.ErrTransport)
	assert.False(t, errors.Is(err, bus.ErrTransportTimeout))

	fc.err = modbus.ErrRequestTimedOut
	assert.NoError(t, tr.WriteRegisters(ctx, bus.BroadcastID, 0x0A00, []uint16{1}))
	assert.ErrorIs(t, tr.WriteRegisters(ctx, 1, 0x0A00, []uint16{1}), bus.ErrTransportTimeout)
}

func TestExpiredContext(t *testing.T) {
	fc := newFake()
	tr, err := open(fc)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	_, err = tr.ReadRegisters(ctx, 1, 0, 1)
	assert.ErrorIs(t, err, bus.ErrTransportTimeout)
	assert.Empty(t, fc.units)
}

func TestOpenError(t *testing.T) {
	fc := newFake()
	fc.openErr = errors.New("no such device")
	_, err := open(fc)
	assert.ErrorContains(t, err, "no such device")
}
