package param

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Encode converts a logical value to register words. The value is rounded
// to the nearest raw unit of the descriptor's scale, then range checked.
// For enumerated parameters the value is taken as the numeric code.
func Encode(d Descriptor, v float64) ([]uint16, error) {
	raw, err := d.Scale.ToRaw(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutOfRange, d, err)
	}
	return EncodeRaw(d, raw)
}

// EncodeCode encodes the numeric code of an enumerated or bitfield parameter.
func EncodeCode(d Descriptor, code uint16) ([]uint16, error) {
	return EncodeRaw(d, int64(code))
}

// EncodeSymbol encodes an enum symbol such as "speed" or "115200".
func EncodeSymbol(d Descriptor, symbol string) ([]uint16, error) {
	if d.Kind != KindEnum {
		return nil, fmt.Errorf("%w: %s is %s, not enum", ErrKind, d, d.Kind)
	}
	code, ok := d.Enum.Code(strings.TrimSpace(symbol))
	if !ok {
		return nil, fmt.Errorf("%w: %q for %s", ErrUnknownVariant, symbol, d)
	}
	return EncodeRaw(d, int64(code))
}

// EncodeRaw range checks a raw integer and packs it into register words.
func EncodeRaw(d Descriptor, raw int64) ([]uint16, error) {
	if d.Kind == KindEnum {
		if raw < 0 || raw > 0xFFFF {
			return nil, fmt.Errorf("%w: code %d for %s", ErrUnknownVariant, raw, d)
		}
		if _, ok := d.Enum.Symbol(uint16(raw)); !ok {
			return nil, fmt.Errorf("%w: code %d for %s", ErrUnknownVariant, raw, d)
		}
	}
	if raw < d.Min || raw > d.Max {
		return nil, fmt.Errorf("%w: %s for %s (allowed %s..%s)", ErrOutOfRange,
			d.Scale.FromRaw(raw), d, d.MinValue(), d.MaxValue())
	}
	if d.Width == Width32 {
		w := register.Pack32(uint32(raw))
		return w[:], nil
	}
	return []uint16{uint16(raw)}, nil
}

// EncodeString parses text input for a parameter. Enum parameters accept a
// symbol or a numeric code, bitfields accept decimal or 0x-prefixed hex,
// numeric parameters accept a decimal number in logical units.
func EncodeString(d Descriptor, s string) ([]uint16, error) {
	s = strings.TrimSpace(s)
	switch d.Kind {
	case KindEnum:
		if _, ok := d.Enum.Code(s); ok {
			return EncodeSymbol(d, s)
		}
		code, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownVariant, s, d)
		}
		return EncodeRaw(d, code)
	case KindBitfield:
		raw, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer for %s", ErrOutOfRange, s, d)
		}
		return EncodeRaw(d, raw)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number for %s", ErrOutOfRange, s, d)
		}
		return Encode(d, v)
	}
}

// Decode converts register words to a Value. Enumerated parameters fail with
// ErrUnknownVariant for codes missing from their table.
func Decode(d Descriptor, words []uint16) (Value, error) {
	if len(words) != d.Words() {
		return Value{}, fmt.Errorf("%w: %s wants %d, got %d", ErrWordCount, d, d.Words(), len(words))
	}
	var raw int64
	switch {
	case d.Width == Width32 && d.Signed:
		raw = register.SignExtend32(register.Unpack32(words[0], words[1]))
	case d.Width == Width32:
		raw = int64(register.Unpack32(words[0], words[1]))
	case d.Signed:
		raw = register.SignExtend16(words[0])
	default:
		raw = int64(words[0])
	}
	if d.Kind == KindEnum {
		if _, ok := d.Enum.Symbol(uint16(raw)); !ok {
			return Value{}, fmt.Errorf("%w: code %d for %s", ErrUnknownVariant, raw, d)
		}
	}
	return Value{Descriptor: d, Raw: raw}, nil
}

// Value is a decoded parameter value.
type Value struct {
	Descriptor Descriptor
	Raw        int64
}

// Decimal returns the exact logical value.
func (v Value) Decimal() register.Decimal { return v.Descriptor.Scale.FromRaw(v.Raw) }

// Float64 returns the logical value as a float.
func (v Value) Float64() float64 { return v.Decimal().Float64() }

// Int returns the raw integer.
func (v Value) Int() int64 { return v.Raw }

// Code returns the raw value as a 16-bit code.
func (v Value) Code() uint16 { return uint16(v.Raw) }

// Symbol returns the enum symbol, or "" for non-enum parameters.
func (v Value) Symbol() string {
	if v.Descriptor.Enum == nil {
		return ""
	}
	s, _ := v.Descriptor.Enum.Symbol(v.Code())
	return s
}

// String renders the value with its unit, the enum symbol, or hex for bitfields.
func (v Value) String() string {
	switch v.Descriptor.Kind {
	case KindEnum:
		return v.Symbol()
	case KindBitfield:
		return fmt.Sprintf("0x%04X", v.Raw)
	}
	s := v.Decimal().String()
	if v.Descriptor.Unit != "" {
		s += " " + v.Descriptor.Unit
	}
	return s
}

// Writable returns ErrReadOnly if the parameter cannot be written.
func (d Descriptor) Writable() error {
	if !d.Access.CanWrite() {
		return fmt.Errorf("%w: %s", ErrReadOnly, d)
	}
	return nil
}

// Readable returns ErrWriteOnly if the parameter cannot be read back.
func (d Descriptor) Readable() error {
	if !d.Access.CanRead() {
		return fmt.Errorf("%w: %s", ErrWriteOnly, d)
	}
	return nil
}
