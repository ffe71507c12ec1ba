package register

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAddress(t *testing.T) {
	documented := []uint8{0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16, 18}
	for _, g := range documented {
		for i := uint8(0); i <= MaxIndex; i++ {
			a, err := EncodeAddress(g, i)
			require.NoError(t, err)
			assert.Equal(t, Address(uint16(g)*256+uint16(i)), a)
			assert.Equal(t, g, a.Group())
			assert.Equal(t, i, a.Index())
			assert.True(t, a.Valid())
		}
	}

	a, err := EncodeAddress(18, 1)
	require.NoError(t, err)
	assert.Equal(t, Address(0x1201), a)
	assert.Equal(t, "P18.01", a.String())
}

func TestEncodeAddressRejectsIllegalCodes(t *testing.T) {
	tests := []struct {
		group, index uint8
	}{
		{25, 0},
		{0, 100},
		{255, 255},
	}
	for _, tt := range tests {
		_, err := EncodeAddress(tt.group, tt.index)
		assert.True(t, errors.Is(err, ErrInvalidAddress), "P%d.%d", tt.group, tt.index)
	}

	assert.False(t, Address(0x1964).Valid())
	assert.Panics(t, func() { MustAddress(30, 0) })
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		group   uint8
		index   uint8
		wantErr bool
	}{
		{"P18.01", 18, 1, false},
		{"p5.3", 5, 3, false},
		{"13.08", 13, 8, false},
		{" P00.00 ", 0, 0, false},
		{"P25.00", 0, 0, true},
		{"P01.100", 0, 0, true},
		{"P0100", 0, 0, true},
		{"Px.01", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, i, err := ParseCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.group, g)
			assert.Equal(t, tt.index, i)
		})
	}
}

func TestPack32LowWordFirst(t *testing.T) {
	w := Pack32(0x12345678)
	assert.Equal(t, [2]uint16{0x5678, 0x1234}, w)
	assert.Equal(t, uint32(0x12345678), Unpack32(w[0], w[1]))

	max := uint32(1073741823)
	w = Pack32(max)
	assert.Equal(t, max, Unpack32(w[0], w[1]))

	neg := int32(-1073741824)
	w = Pack32(uint32(neg))
	assert.Equal(t, [2]uint16{0x0000, 0xC000}, w)
	assert.Equal(t, int64(neg), SignExtend32(Unpack32(w[0], w[1])))
}

func TestSignExtend16(t *testing.T) {
	assert.Equal(t, int64(-1), SignExtend16(0xFFFF))
	assert.Equal(t, int64(-9000), SignExtend16(uint16(0xDCD8)))
	assert.Equal(t, int64(32767), SignExtend16(0x7FFF))
}

func TestWireBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x12, 0x01, 0x00, 0xFF}, Wire([]uint16{0x1201, 0x00FF}))
}

func TestScaleToRaw(t *testing.T) {
	tests := []struct {
		scale Scale
		in    float64
		want  int64
	}{
		{Unit, 1000, 1000},
		{Unit, 2.5, 3},
		{Unit, -2.5, -3},
		{Tenth, 0.1, 1},
		{Tenth, 48.3, 483},
		{Hundredth, 0.29, 29},
		{Hundredth, 3.14159, 314},
	}
	for _, tt := range tests {
		got, err := tt.scale.ToRaw(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v at scale %s", tt.in, tt.scale)
	}

	_, err := Unit.ToRaw(math.NaN())
	assert.ErrorIs(t, err, ErrNotFinite)
	_, err = Unit.ToRaw(math.Inf(1))
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestScaleToRawOverflow(t *testing.T) {
	// 2^63 is the first float64 above MaxInt64.
	_, err := Unit.ToRaw(math.Ldexp(1, 63))
	assert.ErrorIs(t, err, ErrNotFinite)
	_, err = Hundredth.ToRaw(1e17)
	assert.ErrorIs(t, err, ErrNotFinite)

	got, err := Unit.ToRaw(math.Ldexp(-1, 63))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got)

	got, err = Unit.ToRaw(math.Ldexp(1, 62))
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<62, got)
}

func TestDecimalString(t *testing.T) {
	tests := []struct {
		d    Decimal
		want string
	}{
		{Decimal{Raw: 12345, Exp: Hundredth}, "123.45"},
		{Decimal{Raw: 5, Exp: Hundredth}, "0.05"},
		{Decimal{Raw: -5, Exp: Tenth}, "-0.5"},
		{Decimal{Raw: 0, Exp: Tenth}, "0.0"},
		{Decimal{Raw: 42, Exp: Unit}, "42"},
		{Decimal{Raw: 3, Exp: 2}, "300"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
	assert.Equal(t, "0.01", Hundredth.String())
	assert.InDelta(t, 123.45, Decimal{Raw: 12345, Exp: Hundredth}.Float64(), 1e-9)
}
