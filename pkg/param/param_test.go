package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// sampleRaws returns boundary and interior raw values for a descriptor.
func sampleRaws(d Descriptor) []int64 {
	if d.Kind == KindEnum {
		var out []int64
		for _, e := range d.Enum.Entries() {
			out = append(out, int64(e.Code))
		}
		return out
	}
	out := []int64{d.Min, d.Max, d.Min + (d.Max-d.Min)/2}
	if d.Min < 0 && d.Max > 0 {
		out = append(out, 0, -1)
	}
	return out
}

func TestRoundTripAllDescriptors(t *testing.T) {
	for _, d := range Default().Descriptors() {
		t.Run(d.Code()+"_"+d.Name, func(t *testing.T) {
			for _, raw := range sampleRaws(d) {
				words, err := EncodeRaw(d, raw)
				require.NoError(t, err, "raw %d", raw)
				require.Len(t, words, d.Words())

				v, err := Decode(d, words)
				require.NoError(t, err)
				assert.Equal(t, raw, v.Raw)

				// Logical path: the decimal value re-encodes to the same words.
				again, err := Encode(d, v.Float64())
				require.NoError(t, err)
				assert.Equal(t, words, again, "logical %s", v.Decimal())
			}
		})
	}
}

func TestBoundsRejected(t *testing.T) {
	for _, d := range Default().Descriptors() {
		if d.Kind == KindEnum {
			continue
		}
		t.Run(d.Code(), func(t *testing.T) {
			_, err := EncodeRaw(d, d.Min-1)
			assert.ErrorIs(t, err, ErrOutOfRange)
			_, err = EncodeRaw(d, d.Max+1)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestEncodeScaled(t *testing.T) {
	s := Default()

	tests := []struct {
		name  string
		value float64
		want  []uint16
		err   error
	}{
		{InertiaRatio, 12.34, []uint16{1234}, nil},
		{InertiaRatio, 1.006, []uint16{101}, nil},
		{InertiaRatio, 30.0, []uint16{3000}, nil},
		{InertiaRatio, 30.01, nil, ErrOutOfRange},
		{MaxSpeed, 10000, []uint16{10000}, nil},
		{MaxSpeed, 10001, nil, ErrOutOfRange},
		{MaxSpeed, -1, nil, ErrOutOfRange},
		{SpeedCommand, -9000, []uint16{0xDCD8}, nil},
		{TorqueCommand, -0.1, []uint16{0xFFFF}, nil},
		{HomingHighSpeed, 9, nil, ErrOutOfRange},
		{CommAddress, 248, nil, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(s.MustLookup(tt.name), tt.value)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplacement32Bit(t *testing.T) {
	seg, err := Default().SegmentParams(1)
	require.NoError(t, err)
	d := seg.Displacement

	words, err := Encode(d, 1073741823)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFFFF, 0x3FFF}, words)
	v, err := Decode(d, words)
	require.NoError(t, err)
	assert.Equal(t, int64(1073741823), v.Int())

	words, err = Encode(d, -1073741824)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0000, 0xC000}, words)
	v, err = Decode(d, words)
	require.NoError(t, err)
	assert.Equal(t, int64(-1073741824), v.Int())

	_, err = Encode(d, 1073741824)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestUnsigned32Bit(t *testing.T) {
	d := Default().MustLookup("encoder_origin")
	words, err := EncodeRaw(d, 0xFFFFFFFF)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xFFFF, 0xFFFF}, words)

	v, err := Decode(d, words)
	require.NoError(t, err)
	assert.Equal(t, int64(0xFFFFFFFF), v.Raw)
}

func TestBaudRateCodes(t *testing.T) {
	d := Default().MustLookup(BaudRate)

	v, err := Decode(d, []uint16{6})
	require.NoError(t, err)
	assert.Equal(t, "115200", v.Symbol())

	v, err = Decode(d, []uint16{0})
	require.NoError(t, err)
	assert.Equal(t, "2400", v.Symbol())

	_, err = Decode(d, []uint16{7})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = EncodeCode(d, 7)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	words, err := EncodeSymbol(d, "9600")
	require.NoError(t, err)
	assert.Equal(t, []uint16{2}, words)

	_, err = EncodeSymbol(d, "1200")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestEnumBijective(t *testing.T) {
	for _, d := range Default().Descriptors() {
		if d.Kind != KindEnum {
			continue
		}
		for _, e := range d.Enum.Entries() {
			sym, ok := d.Enum.Symbol(e.Code)
			require.True(t, ok, "%s code %d", d, e.Code)
			assert.Equal(t, e.Symbol, sym)

			code, ok := d.Enum.Code(e.Symbol)
			require.True(t, ok, "%s symbol %s", d, e.Symbol)
			assert.Equal(t, e.Code, code)
		}
	}
}

func TestEnumSparseCodes(t *testing.T) {
	d := Default().MustLookup(PositionSource)
	_, err := EncodeCode(d, 3)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	words, err := EncodeSymbol(d, "Communication")
	require.NoError(t, err)
	assert.Equal(t, []uint16{5}, words)
}

func TestEncodeSymbolWrongKind(t *testing.T) {
	_, err := EncodeSymbol(Default().MustLookup(MaxSpeed), "fast")
	assert.ErrorIs(t, err, ErrKind)
}

func TestEncodeString(t *testing.T) {
	s := Default()

	tests := []struct {
		name  string
		input string
		want  []uint16
		err   error
	}{
		{ControlMode, "speed", []uint16{1}, nil},
		{ControlMode, "2", []uint16{2}, nil},
		{ControlMode, "3", nil, ErrUnknownVariant},
		{ControlMode, "velocity", nil, ErrUnknownVariant},
		{"forced_do", "0x1F", []uint16{0x1F}, nil},
		{"forced_do", "0x20", nil, ErrOutOfRange},
		{InertiaRatio, "12.5", []uint16{1250}, nil},
		{InertiaRatio, "abc", nil, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.input, func(t *testing.T) {
			got, err := EncodeString(s.MustLookup(tt.name), tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeWordCount(t *testing.T) {
	_, err := Decode(Default().MustLookup(AbsolutePosition), []uint16{1})
	assert.ErrorIs(t, err, ErrWordCount)
	_, err = Decode(Default().MustLookup(MaxSpeed), []uint16{1, 2})
	assert.ErrorIs(t, err, ErrWordCount)
}

func TestValueString(t *testing.T) {
	s := Default()

	v, err := Decode(s.MustLookup(MaxSpeed), []uint16{3000})
	require.NoError(t, err)
	assert.Equal(t, "3000 rpm", v.String())

	v, err = Decode(s.MustLookup(BusVoltage), []uint16{3105})
	require.NoError(t, err)
	assert.Equal(t, "310.5 V", v.String())
	assert.InDelta(t, 310.5, v.Float64(), 1e-9)

	v, err = Decode(s.MustLookup(ControlMode), []uint16{2})
	require.NoError(t, err)
	assert.Equal(t, "torque", v.String())

	v, err = Decode(s.MustLookup(ServoStatus), []uint16{0x0012})
	require.NoError(t, err)
	assert.Equal(t, "0x0012", v.String())
}

func TestLookup(t *testing.T) {
	s := Default()

	d, err := s.Lookup(0, 7)
	require.NoError(t, err)
	assert.Equal(t, MaxSpeed, d.Name)
	assert.Equal(t, register.Address(0x0007), d.Address())

	d, err = s.LookupByName("P18.01")
	require.NoError(t, err)
	assert.Equal(t, MotorSpeed, d.Name)
	assert.Equal(t, register.Address(0x1201), d.Address())

	d, err = s.LookupByName("MAX_SPEED")
	require.NoError(t, err)
	assert.Equal(t, "P00.07", d.Code())

	_, err = s.LookupByName("bogus")
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = s.Lookup(3, 0)
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = s.Lookup(25, 0)
	assert.ErrorIs(t, err, register.ErrInvalidAddress)

	// The second word of a 32-bit parameter is not a parameter of its own.
	_, err = s.Lookup(18, 8)
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestDocumentedGroupsPresent(t *testing.T) {
	s := Default()
	for _, g := range []uint8{0, 1, 2, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16, 18} {
		assert.NotEmpty(t, s.Group(g), "group P%02d", g)
	}
	assert.Empty(t, s.Group(3))

	descs := s.Descriptors()
	for i := 1; i < len(descs); i++ {
		assert.Less(t, descs[i-1].Address(), descs[i].Address())
	}
}

func TestAccess(t *testing.T) {
	s := Default()

	assert.ErrorIs(t, s.MustLookup(SoftwareVersion).Writable(), ErrReadOnly)
	assert.NoError(t, s.MustLookup(SoftwareVersion).Readable())
	assert.ErrorIs(t, s.MustLookup(FaultReset).Readable(), ErrWriteOnly)
	assert.NoError(t, s.MustLookup(FaultReset).Writable())
	assert.NoError(t, s.MustLookup(MaxSpeed).Writable())

	assert.Equal(t, "RW", AccessReadWrite.String())
	assert.Equal(t, "R", AccessReadOnly.String())
	assert.Equal(t, "W", AccessWriteOnly.String())
	assert.Equal(t, "-", Access(0).String())
}

func TestSegmentParams(t *testing.T) {
	s := Default()

	seg, err := s.SegmentParams(1)
	require.NoError(t, err)
	assert.Equal(t, register.Address(0x0D08), seg.Displacement.Address())
	assert.Equal(t, register.Address(0x0D0A), seg.Speed.Address())
	assert.Equal(t, register.Address(0x0D0B), seg.AccelDecel.Address())
	assert.Equal(t, register.Address(0x0D0C), seg.Wait.Address())
	assert.Equal(t, Width32, seg.Displacement.Width)

	seg, err = s.SegmentParams(16)
	require.NoError(t, err)
	assert.Equal(t, "P13.83", seg.Displacement.Code())
	assert.Equal(t, "P13.87", seg.Wait.Code())

	for _, n := range []int{0, 17, -1} {
		_, err = s.SegmentParams(n)
		assert.ErrorIs(t, err, ErrInvalidSegment)
	}
}

func TestSpeedStepParams(t *testing.T) {
	s := Default()

	step, err := s.SpeedStepParams(1)
	require.NoError(t, err)
	assert.Equal(t, "P14.07", step.Speed.Code())
	assert.Equal(t, "P14.09", step.AccelSelect.Code())

	step, err = s.SpeedStepParams(16)
	require.NoError(t, err)
	assert.Equal(t, "P14.52", step.Speed.Code())
	assert.Equal(t, "P14.54", step.AccelSelect.Code())

	_, err = s.SpeedStepParams(17)
	assert.ErrorIs(t, err, ErrInvalidSegment)
}

func TestNewEnumRejectsDuplicates(t *testing.T) {
	_, err := NewEnum(EnumEntry{0, "a"}, EnumEntry{0, "b"})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewEnum(EnumEntry{0, "a"}, EnumEntry{1, "A"})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewEnum()
	assert.ErrorIs(t, err, ErrSchema)

	e, err := NewEnum(EnumEntry{3, "x"}, EnumEntry{9, "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len())
}

func TestMalformedSchema(t *testing.T) {
	good := num(0, 7, "max_speed", 0, 10000, "")

	badEnum := enum(0, 0, "mode", symbols("a", "b"), "")
	badEnum.Max = 0

	missingEnum := num(0, 0, "mode", 0, 2, "")
	missingEnum.Kind = KindEnum

	strayEnum := num(0, 0, "mode", 0, 2, "")
	strayEnum.Enum = symbols("a")

	noAccess := num(0, 0, "x", 0, 1, "")
	noAccess.Access = 0

	unsignedNegative := num(0, 0, "x", -1, 1, "")
	unsignedNegative.Signed = false

	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"duplicate address", []Descriptor{good, num(0, 7, "other", 0, 1, "")}},
		{"duplicate name", []Descriptor{good, num(0, 8, "max_speed", 0, 1, "")}},
		{"32-bit overlap", []Descriptor{num(4, 7, "a", 0, 1, "").wide(), num(4, 8, "b", 0, 1, "")}},
		{"32-bit at last index", []Descriptor{num(4, 99, "a", 0, 1, "").wide()}},
		{"illegal group", []Descriptor{num(25, 0, "a", 0, 1, "")}},
		{"illegal index", []Descriptor{num(0, 100, "a", 0, 1, "")}},
		{"min above max", []Descriptor{num(0, 0, "a", 5, 1, "")}},
		{"16-bit overflow", []Descriptor{num(0, 0, "a", 0, 70000, "")}},
		{"signed overflow", []Descriptor{num(0, 0, "a", -40000, 1, "")}},
		{"unsigned negative", []Descriptor{unsignedNegative}},
		{"enum code outside bounds", []Descriptor{badEnum}},
		{"enum kind without table", []Descriptor{missingEnum}},
		{"table on numeric kind", []Descriptor{strayEnum}},
		{"no access", []Descriptor{noAccess}},
		{"no name", []Descriptor{num(0, 0, "", 0, 1, "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.descs)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Panics(t, func() { MustSchema(tt.descs) })
		})
	}
}
