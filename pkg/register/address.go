package register

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Address bounds.
const (
	// MaxGroup is the highest legal parameter group.
	MaxGroup = 24

	// MaxIndex is the highest legal index inside a group.
	MaxIndex = 99

	// GroupStride is the address distance between two groups.
	GroupStride = 256
)

// ErrInvalidAddress is returned for group/index pairs outside the legal range.
var ErrInvalidAddress = errors.New("invalid register address")

// Address is a 16-bit holding register address.
type Address uint16

// EncodeAddress computes the register address of parameter P<group>.<index>.
func EncodeAddress(group, index uint8) (Address, error) {
	if group > MaxGroup || index > MaxIndex {
		return 0, fmt.Errorf("%w: P%02d.%02d", ErrInvalidAddress, group, index)
	}
	return Address(uint16(group)*GroupStride + uint16(index)), nil
}

// MustAddress is like EncodeAddress but panics on an illegal code.
// It is meant for static tables built at startup.
func MustAddress(group, index uint8) Address {
	a, err := EncodeAddress(group, index)
	if err != nil {
		panic(err)
	}
	return a
}

// Group returns the parameter group of the address.
func (a Address) Group() uint8 { return uint8(a >> 8) }

// Index returns the index of the address inside its group.
func (a Address) Index() uint8 { return uint8(a & 0xFF) }

// Valid reports whether the address maps to a legal parameter code.
func (a Address) Valid() bool {
	return a.Group() <= MaxGroup && a.Index() <= MaxIndex
}

// Next returns the address of the following register.
func (a Address) Next() Address { return a + 1 }

// String returns the parameter code, e.g. "P18.01".
func (a Address) String() string {
	return fmt.Sprintf("P%02d.%02d", a.Group(), a.Index())
}

// ParseCode parses a parameter code such as "P18.01", "p5.3" or "18.01".
func ParseCode(code string) (group, index uint8, err error) {
	s := strings.TrimSpace(code)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "P"), "p")

	g, i, ok := strings.Cut(s, ".")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not a PXX.YY code", ErrInvalidAddress, code)
	}
	gv, err := strconv.ParseUint(g, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad group in %q", ErrInvalidAddress, code)
	}
	iv, err := strconv.ParseUint(i, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad index in %q", ErrInvalidAddress, code)
	}
	if gv > MaxGroup || iv > MaxIndex {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAddress, code)
	}
	return uint8(gv), uint8(iv), nil
}
