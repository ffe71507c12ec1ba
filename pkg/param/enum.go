package param

import (
	"fmt"
	"strings"
)

// EnumEntry maps a numeric code to its symbol.
type EnumEntry struct {
	Code   uint16
	Symbol string
}

// Enum is a bijective code/symbol table.
type Enum struct {
	entries  []EnumEntry
	bySymbol map[string]uint16
	byCode   map[uint16]string
}

// NewEnum builds an Enum, rejecting duplicate codes or symbols.
// Symbols are matched case-insensitively.
func NewEnum(entries ...EnumEntry) (*Enum, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: enum has no entries", ErrSchema)
	}
	e := &Enum{
		entries:  make([]EnumEntry, 0, len(entries)),
		bySymbol: make(map[string]uint16, len(entries)),
		byCode:   make(map[uint16]string, len(entries)),
	}
	for _, ent := range entries {
		key := strings.ToLower(ent.Symbol)
		if key == "" {
			return nil, fmt.Errorf("%w: empty symbol for code %d", ErrSchema, ent.Code)
		}
		if prev, ok := e.byCode[ent.Code]; ok {
			return nil, fmt.Errorf("%w: code %d mapped to both %q and %q", ErrSchema, ent.Code, prev, ent.Symbol)
		}
		if prev, ok := e.bySymbol[key]; ok {
			return nil, fmt.Errorf("%w: symbol %q mapped to both %d and %d", ErrSchema, ent.Symbol, prev, ent.Code)
		}
		e.byCode[ent.Code] = ent.Symbol
		e.bySymbol[key] = ent.Code
		e.entries = append(e.entries, ent)
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on a malformed table.
func MustEnum(entries ...EnumEntry) *Enum {
	e, err := NewEnum(entries...)
	if err != nil {
		panic(err)
	}
	return e
}

// symbols builds an Enum with consecutive codes starting at 0.
func symbols(names ...string) *Enum {
	entries := make([]EnumEntry, len(names))
	for i, n := range names {
		entries[i] = EnumEntry{Code: uint16(i), Symbol: n}
	}
	return MustEnum(entries...)
}

// Symbol returns the symbol for code.
func (e *Enum) Symbol(code uint16) (string, bool) {
	s, ok := e.byCode[code]
	return s, ok
}

// Code returns the code for symbol.
func (e *Enum) Code(symbol string) (uint16, bool) {
	c, ok := e.bySymbol[strings.ToLower(symbol)]
	return c, ok
}

// Entries returns the table in declaration order.
func (e *Enum) Entries() []EnumEntry {
	out := make([]EnumEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Len returns the number of entries.
func (e *Enum) Len() int { return len(e.entries) }

func (e *Enum) bounds() (lo, hi uint16) {
	lo, hi = e.entries[0].Code, e.entries[0].Code
	for _, ent := range e.entries[1:] {
		lo = min(lo, ent.Code)
		hi = max(hi, ent.Code)
	}
	return lo, hi
}
