package param

import (
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Width is the register footprint of a parameter.
type Width uint8

const (
	// Width16 parameters occupy a single register.
	Width16 Width = 1

	// Width32 parameters occupy two consecutive registers, low word first.
	Width32 Width = 2
)

// Words returns the number of registers a value of this width occupies.
func (w Width) Words() int { return int(w) }

// String returns "16" or "32".
func (w Width) String() string {
	switch w {
	case Width16:
		return "16"
	case Width32:
		return "32"
	default:
		return fmt.Sprintf("Width(%d)", w)
	}
}

// Kind classifies the meaning of a parameter's raw value.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindEnum
	KindBitfield
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindEnum:
		return "enum"
	case KindBitfield:
		return "bitfield"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Access flags for parameters.
type Access uint8

const (
	// AccessRead allows reading the parameter.
	AccessRead Access = 1 << iota

	// AccessWrite allows writing the parameter.
	AccessWrite

	// Common access combinations.

	// AccessReadOnly parameters are monitoring values or identification data.
	AccessReadOnly = AccessRead

	// AccessReadWrite is the normal case for configuration parameters.
	AccessReadWrite = AccessRead | AccessWrite

	// AccessWriteOnly parameters are triggers (fault reset, EEPROM save).
	// Reading them back carries no meaning.
	AccessWriteOnly = AccessWrite
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// String returns the access flags as a string.
func (a Access) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Descriptor is the static definition of one drive parameter.
// Min and Max are raw-unit bounds; the logical range is Min..Max times the scale.
type Descriptor struct {
	Name        string
	Group       uint8
	Index       uint8
	Width       Width
	Signed      bool
	Scale       register.Scale
	Kind        Kind
	Enum        *Enum
	Min         int64
	Max         int64
	Access      Access
	Unit        string
	Description string
}

// Address returns the register address of the parameter's first word.
// Descriptors taken from a Schema always have a legal address.
func (d Descriptor) Address() register.Address {
	return register.Address(uint16(d.Group)*register.GroupStride + uint16(d.Index))
}

// Code returns the parameter code, e.g. "P10.02".
func (d Descriptor) Code() string { return d.Address().String() }

// Words returns the number of registers the parameter occupies.
func (d Descriptor) Words() int { return d.Width.Words() }

// MinValue returns the lower logical bound.
func (d Descriptor) MinValue() register.Decimal { return d.Scale.FromRaw(d.Min) }

// MaxValue returns the upper logical bound.
func (d Descriptor) MaxValue() register.Decimal { return d.Scale.FromRaw(d.Max) }

// String returns a short human readable form, e.g. "P00.07 max_speed".
func (d Descriptor) String() string {
	return d.Code() + " " + d.Name
}

// Builders used by the parameter tables.

func (d Descriptor) ro() Descriptor { d.Access = AccessReadOnly; return d }

func (d Descriptor) wo() Descriptor { d.Access = AccessWriteOnly; return d }

func (d Descriptor) scaled(s register.Scale) Descriptor { d.Scale = s; return d }

func (d Descriptor) unit(u string) Descriptor { d.Unit = u; return d }

func (d Descriptor) wide() Descriptor { d.Width = Width32; return d }

func num(group, index uint8, name string, min, max int64, description string) Descriptor {
	return Descriptor{
		Name:        name,
		Group:       group,
		Index:       index,
		Width:       Width16,
		Signed:      min < 0,
		Kind:        KindNumeric,
		Min:         min,
		Max:         max,
		Access:      AccessReadWrite,
		Description: description,
	}
}

func bits(group, index uint8, name string, max int64, description string) Descriptor {
	d := num(group, index, name, 0, max, description)
	d.Kind = KindBitfield
	return d
}

func enum(group, index uint8, name string, e *Enum, description string) Descriptor {
	lo, hi := e.bounds()
	d := num(group, index, name, int64(lo), int64(hi), description)
	d.Kind = KindEnum
	d.Enum = e
	return d
}
