package register

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotFinite is returned when a NaN or infinite value is scaled.
var ErrNotFinite = errors.New("value is not finite")

// Scale is a decimal exponent applied to raw register units.
// Scale(-2) means one raw unit is 0.01 logical units.
type Scale int8

// Common scales.
const (
	Unit      Scale = 0
	Tenth     Scale = -1
	Hundredth Scale = -2
)

// Multiplier returns the scale as a float factor (10^exp).
func (s Scale) Multiplier() float64 {
	return math.Pow10(int(s))
}

// ToRaw converts a logical value to the nearest raw integer unit.
// Halves round away from zero.
func (s Scale) ToRaw(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	// Multiply by the inverse power so common scales (0.1, 0.01) stay exact
	// for values that are representable at the declared precision.
	r := math.Round(v * math.Pow10(-int(s)))
	if r >= math.MaxInt64 || r < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v overflows", ErrNotFinite, v)
	}
	return int64(r), nil
}

// FromRaw returns the exact decimal value of a raw integer.
func (s Scale) FromRaw(raw int64) Decimal {
	return Decimal{Raw: raw, Exp: s}
}

// String returns the scale as a decimal factor, e.g. "0.01".
func (s Scale) String() string {
	return Decimal{Raw: 1, Exp: s}.String()
}

// Decimal is an exact scaled integer: Raw * 10^Exp.
type Decimal struct {
	Raw int64
	Exp Scale
}

// Float64 returns the value as a float.
func (d Decimal) Float64() float64 {
	if d.Exp < 0 {
		return float64(d.Raw) / math.Pow10(-int(d.Exp))
	}
	return float64(d.Raw) * math.Pow10(int(d.Exp))
}

// String renders the value with exactly -Exp fractional digits.
func (d Decimal) String() string {
	if d.Exp >= 0 {
		s := strconv.FormatInt(d.Raw, 10)
		if d.Raw != 0 {
			s += strings.Repeat("0", int(d.Exp))
		}
		return s
	}

	neg := d.Raw < 0
	mag := uint64(d.Raw)
	if neg {
		mag = uint64(-d.Raw)
	}
	digits := strconv.FormatUint(mag, 10)
	frac := int(-d.Exp)
	if len(digits) <= frac {
		digits = strings.Repeat("0", frac-len(digits)+1) + digits
	}
	cut := len(digits) - frac
	s := digits[:cut] + "." + digits[cut:]
	if neg {
		s = "-" + s
	}
	return s
}
