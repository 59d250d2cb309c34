package types

import "github.com/krew-solutions/stat-query-go/statquery/operations"

// Int is the integer counterpart of Float with integer multipliers.
type Int[T Integer] struct {
	Addend T        `json:"addend"`
	Mult   T        `json:"mult"`
	Lo     Bound[T] `json:"lo,omitempty"`
	Hi     Bound[T] `json:"hi,omitempty"`
}

func NewInt[T Integer]() *Int[T] {
	return &Int[T]{Mult: 1}
}

func (v *Int[T]) Join(other Value) error {
	o, ok := other.(*Int[T])
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

func (v *Int[T]) Apply(op operations.Operation) error {
	if op.Kind == operations.KindOr {
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = Int[T]{Addend: x, Mult: 1}
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

func (v *Int[T]) Total() T {
	return clamp(v.Addend*v.Mult, v.Lo, v.Hi)
}

func (v *Int[T]) Eval() any { return v.Total() }

func (v *Int[T]) Clone() Value {
	c := *v
	return &c
}

// IntFloatMul is an integer stat multiplied by float factors and rounded
// back to an integer at evaluation. Add, Min and Max take the integer type;
// Mul takes float64.
type IntFloatMul[T Integer] struct {
	Addend T                   `json:"addend"`
	Mult   float64             `json:"mult"`
	Lo     Bound[T]            `json:"lo,omitempty"`
	Hi     Bound[T]            `json:"hi,omitempty"`
	Round  operations.Rounding `json:"round,omitempty"`
}

func NewIntFloatMul[T Integer]() *IntFloatMul[T] {
	return &IntFloatMul[T]{Mult: 1}
}

func (v *IntFloatMul[T]) Join(other Value) error {
	o, ok := other.(*IntFloatMul[T])
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

func (v *IntFloatMul[T]) Apply(op operations.Operation) error {
	switch op.Kind {
	case operations.KindOr:
		return unsupportedKind(v, op)
	case operations.KindMul:
		x, ok := op.Operand.(float64)
		if !ok {
			return wrongOperand(v, op)
		}
		v.Mult *= x
		return nil
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = IntFloatMul[T]{Addend: x, Mult: 1, Round: v.Round}
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

func (v *IntFloatMul[T]) Total() T {
	out := T(v.Round.Apply(float64(v.Addend) * v.Mult))
	return clamp(out, v.Lo, v.Hi)
}

func (v *IntFloatMul[T]) Eval() any { return v.Total() }

func (v *IntFloatMul[T]) Clone() Value {
	c := *v
	return &c
}

// percentScale is the denominator of the percent-based kinds: a multiplier
// operand of 150 means ×1.5.
const percentScale = 100

// IntPercent multiplies integer percent operands together: 150 then 50
// yields ×0.75.
type IntPercent[T Integer] struct {
	Addend T                   `json:"addend"`
	Mult   float64             `json:"mult"`
	Lo     Bound[T]            `json:"lo,omitempty"`
	Hi     Bound[T]            `json:"hi,omitempty"`
	Round  operations.Rounding `json:"round,omitempty"`
}

func NewIntPercent[T Integer]() *IntPercent[T] {
	return &IntPercent[T]{Mult: 1}
}

func (v *IntPercent[T]) Join(other Value) error {
	o, ok := other.(*IntPercent[T])
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

func (v *IntPercent[T]) Apply(op operations.Operation) error {
	if op.Kind == operations.KindOr {
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = IntPercent[T]{Addend: x, Mult: 1, Round: v.Round}
	case operations.KindAdd:
		v.Addend += x
	case operations.KindMul:
		v.Mult *= float64(x) / percentScale
	case operations.KindMin:
		v.Lo.Raise(x)
	case operations.KindMax:
		v.Hi.Lower(x)
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

func (v *IntPercent[T]) Total() T {
	out := T(v.Round.Apply(float64(v.Addend) * v.Mult))
	return clamp(out, v.Lo, v.Hi)
}

func (v *IntPercent[T]) Eval() any { return v.Total() }

func (v *IntPercent[T]) Clone() Value {
	c := *v
	return &c
}

// IntPercentAdditive sums percent operands instead of multiplying them: the
// multiplier starts at 100 and two +25 modifiers make 150 percent total.
type IntPercentAdditive[T Integer] struct {
	Addend T                   `json:"addend"`
	Mult   T                   `json:"mult"`
	Lo     Bound[T]            `json:"lo,omitempty"`
	Hi     Bound[T]            `json:"hi,omitempty"`
	Round  operations.Rounding `json:"round,omitempty"`
}

func NewIntPercentAdditive[T Integer]() *IntPercentAdditive[T] {
	return &IntPercentAdditive[T]{Mult: percentScale}
}

func (v *IntPercentAdditive[T]) Join(other Value) error {
	o, ok := other.(*IntPercentAdditive[T])
	if !ok {
		return cannotJoin(v, other)
	}
	v.Addend += o.Addend
	v.Mult += o.Mult - percentScale
	if o.Lo.Set {
		v.Lo.Raise(o.Lo.V)
	}
	if o.Hi.Set {
		v.Hi.Lower(o.Hi.V)
	}
	return nil
}

func (v *IntPercentAdditive[T]) Apply(op operations.Operation) error {
	if op.Kind == operations.KindOr {
		return unsupportedKind(v, op)
	}
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		*v = IntPercentAdditive[T]{Addend: x, Mult: percentScale, Round: v.Round}
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

func (v *IntPercentAdditive[T]) Total() T {
	out := T(v.Round.Apply(float64(v.Addend) * float64(v.Mult) / percentScale))
	return clamp(out, v.Lo, v.Hi)
}

func (v *IntPercentAdditive[T]) Eval() any { return v.Total() }

func (v *IntPercentAdditive[T]) Clone() Value {
	c := *v
	return &c
}
