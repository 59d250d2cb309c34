package operations

import (
	"fmt"
	"math"
)

// Rounding picks how integer value kinds collapse a fractional result back
// to an integer.
type Rounding uint8

const (
	// Truncate rounds toward zero.
	Truncate Rounding = iota
	// Floor rounds toward negative infinity.
	Floor
	// Ceil rounds toward positive infinity.
	Ceil
	// Round rounds to the nearest integer, halves away from zero.
	Round
	// TruncateSigned truncates but keeps the sign alive: positive inputs
	// round to at least 1, negative inputs to at most -1, zero stays zero.
	TruncateSigned
)

var roundingNames = [...]string{"truncate", "floor", "ceil", "round", "truncate_signed"}

func (r Rounding) String() string {
	if int(r) < len(roundingNames) {
		return roundingNames[r]
	}
	return fmt.Sprintf("Rounding(%d)", uint8(r))
}

// ParseRounding resolves a rounding mode from its lower-case name.
func ParseRounding(name string) (Rounding, error) {
	for i, n := range roundingNames {
		if n == name {
			return Rounding(i), nil
		}
	}
	return 0, fmt.Errorf("operations: unknown rounding mode %q", name)
}

// Apply rounds x according to the mode.
func (r Rounding) Apply(x float64) float64 {
	switch r {
	case Floor:
		return math.Floor(x)
	case Ceil:
		return math.Ceil(x)
	case Round:
		return math.Round(x)
	case TruncateSigned:
		t := math.Trunc(x)
		if x > 0 && t < 1 {
			return 1
		}
		if x < 0 && t > -1 {
			return -1
		}
		return t
	default:
		return math.Trunc(x)
	}
}
