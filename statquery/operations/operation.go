// Package operations defines the closed set of unordered operations a
// modifier can contribute to a stat accumulator. Every kind is a commutative
// monoid over its operand, so the fold result never depends on arrival order.
package operations

import (
	"errors"
	"fmt"
)

// Kind discriminates the operation variants.
type Kind uint8

const (
	// KindBase seeds the accumulator, discarding prior state.
	KindBase Kind = iota
	// KindAdd accumulates into the running sum.
	KindAdd
	// KindMul accumulates into the running product.
	KindMul
	// KindMin raises the lower clamp bound.
	KindMin
	// KindMax lowers the upper clamp bound.
	KindMax
	// KindOr accumulates via logical or bitwise or.
	KindOr
)

var kindNames = [...]string{"base", "add", "mul", "min", "max", "or"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var ErrUnknownKind = errors.New("operations: unknown operation kind")

// ParseKind resolves a kind from its lower-case name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Operation is one qualifier-tagged step contributed by a modifier. The
// operand's concrete type must match the receiving value kind; value kinds
// reject anything else when the operation is folded.
type Operation struct {
	Kind    Kind
	Operand any
}

// Base seeds the accumulator with a starting value.
func Base(operand any) Operation { return Operation{Kind: KindBase, Operand: operand} }

// Add contributes to the running sum.
func Add(operand any) Operation { return Operation{Kind: KindAdd, Operand: operand} }

// Mul contributes to the running product.
func Mul(operand any) Operation { return Operation{Kind: KindMul, Operand: operand} }

// Min raises the lower clamp bound to operand if it is higher.
func Min(operand any) Operation { return Operation{Kind: KindMin, Operand: operand} }

// Max lowers the upper clamp bound to operand if it is lower.
func Max(operand any) Operation { return Operation{Kind: KindMax, Operand: operand} }

// Or folds the operand with logical or bitwise or.
func Or(operand any) Operation { return Operation{Kind: KindOr, Operand: operand} }

func (op Operation) String() string {
	return fmt.Sprintf("%s(%v)", op.Kind, op.Operand)
}
