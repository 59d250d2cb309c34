package types

import "github.com/krew-solutions/stat-query-go/statquery/operations"

// Flags or-folds bit sets, for stats like granted abilities or damage
// immunity masks.
type Flags[T Bits] struct {
	Or T `json:"or"`
}

func NewFlags[T Bits]() *Flags[T] {
	return &Flags[T]{}
}

func (v *Flags[T]) Join(other Value) error {
	o, ok := other.(*Flags[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Or |= o.Or
	return nil
}

func (v *Flags[T]) Apply(op operations.Operation) error {
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		v.Or = x
	case operations.KindOr:
		v.Or |= x
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

// Total evaluates with the bit type intact.
func (v *Flags[T]) Total() T { return v.Or }

func (v *Flags[T]) Eval() any { return v.Or }

func (v *Flags[T]) Clone() Value {
	c := *v
	return &c
}
