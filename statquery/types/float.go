package types

import "github.com/krew-solutions/stat-query-go/statquery/operations"

// Float is the workhorse kind: a running sum, a running product and
// optional clamp bounds. It evaluates to clamp(addend × mult, lo, hi).
type Float[T Floating] struct {
	Addend T        `json:"addend"`
	Mult   T        `json:"mult"`
	Lo     Bound[T] `json:"lo,omitempty"`
	Hi     Bound[T] `json:"hi,omitempty"`
}

func NewFloat[T Floating]() *Float[T] {
	return &Float[T]{Mult: 1}
}

func (v *Float[T]) Join(other Value) error {
	o, ok := other.(*Float[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Addend += o.Addend
	v.Mult *= o.Mult
	if o.Lo.Set {
		v.Lo.Raise(o.Lo.V)
	}
	if o.Hi.Set {
		v.Hi.Lower(o.Hi.V)
	}
	return nil
}

func (v *Float[T]) Apply(op operations.Operation) error {
	if op.Kind == operations.KindOr {
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = Float[T]{Addend: x, Mult: 1}
	case operations.KindAdd:
		v.Addend += x
	case operations.KindMul:
		v.Mult *= x
	case operations.KindMin:
		v.Lo.Raise(x)
	case operations.KindMax:
		v.Hi.Lower(x)
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

// Total evaluates with the output type intact.
func (v *Float[T]) Total() T {
	return clamp(v.Addend*v.Mult, v.Lo, v.Hi)
}

func (v *Float[T]) Eval() any { return v.Total() }

func (v *Float[T]) Clone() Value {
	c := *v
	return &c
}

// FloatAdditive folds multipliers additively instead of multiplicatively:
// two +50% modifiers make +100%, not +125%. Evaluates to
// clamp(addend × (1 + mult), lo, hi).
type FloatAdditive[T Floating] struct {
	Addend T        `json:"addend"`
	Mult   T        `json:"mult"`
	Lo     Bound[T] `json:"lo,omitempty"`
	Hi     Bound[T] `json:"hi,omitempty"`
}

func NewFloatAdditive[T Floating]() *FloatAdditive[T] {
	return &FloatAdditive[T]{}
}

func (v *FloatAdditive[T]) Join(other Value) error {
	o, ok := other.(*FloatAdditive[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Addend += o.Addend
	v.Mult += o.Mult
	if o.Lo.Set {
		v.Lo.Raise(o.Lo.V)
	}
	if o.Hi.Set {
		v.Hi.Lower(o.Hi.V)
	}
	return nil
}

func (v *FloatAdditive[T]) Apply(op operations.Operation) error {
	if op.Kind == operations.KindOr {
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = FloatAdditive[T]{Addend: x}
	case operations.KindAdd:
		v.Addend += x
	case operations.KindMul:
		v.Mult += x
	case operations.KindMin:
		v.Lo.Raise(x)
	case operations.KindMax:
		v.Hi.Lower(x)
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

func (v *FloatAdditive[T]) Total() T {
	return clamp(v.Addend*(v.Mult+1), v.Lo, v.Hi)
}

func (v *FloatAdditive[T]) Eval() any { return v.Total() }

func (v *FloatAdditive[T]) Clone() Value {
	c := *v
	return &c
}

// Additive supports addition and bounds only. Works for any numeric operand.
type Additive[T Number] struct {
	Addend T        `json:"addend"`
	Lo     Bound[T] `json:"lo,omitempty"`
	Hi     Bound[T] `json:"hi,omitempty"`
}

func NewAdditive[T Number]() *Additive[T] {
	return &Additive[T]{}
}

func (v *Additive[T]) Join(other Value) error {
	o, ok := other.(*Additive[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Addend += o.Addend
	if o.Lo.Set {
		v.Lo.Raise(o.Lo.V)
	}
	if o.Hi.Set {
		v.Hi.Lower(o.Hi.V)
	}
	return nil
}

func (v *Additive[T]) Apply(op operations.Operation) error {
	switch op.Kind {
	case operations.KindOr, operations.KindMul:
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = Additive[T]{Addend: x}
	case operations.KindAdd:
		v.Addend += x
	case operations.KindMin:
		v.Lo.Raise(x)
	case operations.KindMax:
		v.Hi.Lower(x)
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

func (v *Additive[T]) Total() T {
	return clamp(v.Addend, v.Lo, v.Hi)
}

func (v *Additive[T]) Eval() any { return v.Total() }

func (v *Additive[T]) Clone() Value {
	c := *v
	return &c
}

// Mult aggregates multipliers only, for stats like attack speed factors.
type Mult[T Floating] struct {
	Mult T        `json:"mult"`
	Lo   Bound[T] `json:"lo,omitempty"`
	Hi   Bound[T] `json:"hi,omitempty"`
}

func NewMult[T Floating]() *Mult[T] {
	return &Mult[T]{Mult: 1}
}

func (v *Mult[T]) Join(other Value) error {
	o, ok := other.(*Mult[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Mult *= o.Mult
	if o.Lo.Set {
		v.Lo.Raise(o.Lo.V)
	}
	if o.Hi.Set {
		v.Hi.Lower(o.Hi.V)
	}
	return nil
}

func (v *Mult[T]) Apply(op operations.Operation) error {
	switch op.Kind {
	case operations.KindOr, operations.KindAdd:
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = Mult[T]{Mult: x}
	case operations.KindMul:
		v.Mult *= x
	case operations.KindMin:
		v.Lo.Raise(x)
	case operations.KindMax:
		v.Hi.Lower(x)
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

func (v *Mult[T]) Total() T {
	return clamp(v.Mult, v.Lo, v.Hi)
}

func (v *Mult[T]) Eval() any { return v.Total() }

func (v *Mult[T]) Clone() Value {
	c := *v
	return &c
}
