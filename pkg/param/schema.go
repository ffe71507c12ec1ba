package param

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Schema is an immutable, validated set of descriptors.
// It is safe for concurrent use.
type Schema struct {
	descriptors []Descriptor
	byAddress   map[register.Address]int
	byName      map[string]int
}

// NewSchema validates the descriptors and builds the lookup tables.
//
// Every descriptor must have a legal address (including the second word of
// a 32-bit parameter), a unique non-empty name, Min <= Max, bounds that fit
// its width and signedness, and, for enumerated kinds, an Enum whose codes
// lie inside the bounds. No two descriptors may claim the same register.
func NewSchema(descriptors []Descriptor) (*Schema, error) {
	s := &Schema{
		descriptors: make([]Descriptor, len(descriptors)),
		byAddress:   make(map[register.Address]int, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)),
	}
	copy(s.descriptors, descriptors)
	slices.SortFunc(s.descriptors, func(a, b Descriptor) int {
		return int(a.Address()) - int(b.Address())
	})

	claimed := make(map[register.Address]string, len(descriptors)+8)
	for i, d := range s.descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		key := strings.ToLower(d.Name)
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrSchema, d.Name)
		}
		for w := 0; w < d.Words(); w++ {
			addr := d.Address() + register.Address(w)
			if owner, ok := claimed[addr]; ok {
				return nil, fmt.Errorf("%w: %s (%s) overlaps %s", ErrSchema, addr, d.Name, owner)
			}
			claimed[addr] = d.Name
		}
		s.byName[key] = i
		s.byAddress[d.Address()] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on a malformed table.
func MustSchema(descriptors []Descriptor) *Schema {
	s, err := NewSchema(descriptors)
	if err != nil {
		panic(err)
	}
	return s
}

func validateDescriptor(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: descriptor P%02d.%02d has no name", ErrSchema, d.Group, d.Index)
	}
	if _, err := register.EncodeAddress(d.Group, d.Index); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, d.Name, err)
	}
	switch d.Width {
	case Width16:
	case Width32:
		if d.Index+1 > register.MaxIndex {
			return fmt.Errorf("%w: %s: second word beyond P%02d.%02d", ErrSchema, d.Name, d.Group, register.MaxIndex)
		}
	default:
		return fmt.Errorf("%w: %s: bad width %d", ErrSchema, d.Name, d.Width)
	}
	if d.Min > d.Max {
		return fmt.Errorf("%w: %s: min %d > max %d", ErrSchema, d.Name, d.Min, d.Max)
	}
	lo, hi := rawLimits(d.Width, d.Signed)
	if d.Min < lo || d.Max > hi {
		return fmt.Errorf("%w: %s: bounds %d..%d do not fit %s-bit (signed=%t)",
			ErrSchema, d.Name, d.Min, d.Max, d.Width, d.Signed)
	}
	if d.Access == 0 {
		return fmt.Errorf("%w: %s: no access flags", ErrSchema, d.Name)
	}
	switch d.Kind {
	case KindEnum:
		if d.Enum == nil || d.Enum.Len() == 0 {
			return fmt.Errorf("%w: %s: enum kind without table", ErrSchema, d.Name)
		}
		for _, e := range d.Enum.Entries() {
			if int64(e.Code) < d.Min || int64(e.Code) > d.Max {
				return fmt.Errorf("%w: %s: code %d outside bounds", ErrSchema, d.Name, e.Code)
			}
		}
	case KindNumeric, KindBitfield:
		if d.Enum != nil {
			return fmt.Errorf("%w: %s: enum table on %s kind", ErrSchema, d.Name, d.Kind)
		}
	default:
		return fmt.Errorf("%w: %s: bad kind %d", ErrSchema, d.Name, d.Kind)
	}
	return nil
}

func rawLimits(w Width, signed bool) (lo, hi int64) {
	switch {
	case w == Width16 && signed:
		return math.MinInt16, math.MaxInt16
	case w == Width16:
		return 0, math.MaxUint16
	case signed:
		return math.MinInt32, math.MaxInt32
	default:
		return 0, math.MaxUint32
	}
}

// Lookup returns the descriptor for P<group>.<index>.
func (s *Schema) Lookup(group, index uint8) (Descriptor, error) {
	addr, err := register.EncodeAddress(group, index)
	if err != nil {
		return Descriptor{}, err
	}
	return s.LookupAddress(addr)
}

// LookupAddress returns the descriptor whose first word is at addr.
func (s *Schema) LookupAddress(addr register.Address) (Descriptor, error) {
	i, ok := s.byAddress[addr]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownParameter, addr)
	}
	return s.descriptors[i], nil
}

// LookupByName resolves a symbolic name ("max_speed") or a parameter code
// ("P00.07"). Names are case-insensitive.
func (s *Schema) LookupByName(name string) (Descriptor, error) {
	if i, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s.descriptors[i], nil
	}
	if g, idx, err := register.ParseCode(name); err == nil {
		return s.Lookup(g, idx)
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

// MustLookup is like LookupByName but panics. Use it for names that are
// part of the built-in table.
func (s *Schema) MustLookup(name string) Descriptor {
	d, err := s.LookupByName(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Descriptors returns all descriptors sorted by address.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// Group returns the descriptors of one parameter group sorted by index.
func (s *Schema) Group(group uint8) []Descriptor {
	var out []Descriptor
	for _, d := range s.descriptors {
		if d.Group == group {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of descriptors.
func (s *Schema) Len() int { return len(s.descriptors) }
