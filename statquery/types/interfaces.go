// Package types provides the commutative accumulator kinds a stat can be
// measured in. Each kind folds operations from any order of arrival into the
// same evaluated result: sums, products, bounds and or-folds are all
// commutative monoids, and the final evaluation combines them through one
// fixed formula per kind.
package types

import (
	"fmt"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
)

// Value is the type-erased accumulator for one stat kind.
//
// Implementations are mutated only by Join and Apply and must keep both
// commutative: folding any permutation of the same multiset of operations,
// or joining the same set of accumulators in any order, yields an identical
// Eval result.
type Value interface {
	// Join folds another accumulator of the same concrete kind into the
	// receiver. A different concrete kind is a type mismatch.
	Join(other Value) error
	// Apply folds a single operation into the receiver. Unsupported
	// operation kinds and wrong operand types are type mismatches.
	Apply(op operations.Operation) error
	// Eval collapses the accumulated state into the kind's output value.
	Eval() any
	// Clone returns an independent copy.
	Clone() Value
}

// EvalAs evaluates v and asserts the output type.
func EvalAs[T any](v Value) (T, error) {
	out, ok := v.Eval().(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T evaluates to %T, not %T", ErrTypeMismatch, v, v.Eval(), zero)
	}
	return out, nil
}

// Floating constrains the float-backed kinds.
type Floating interface {
	~float32 | ~float64
}

// Integer constrains the signed integer kinds.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Number is any supported numeric operand type.
type Number interface {
	Floating | Integer
}

// Bits constrains the flag-set kinds.
type Bits interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}
