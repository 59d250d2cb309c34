package types

import (
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/option"
)

// Bool or-folds booleans, for existence style stats ("is stunned",
// "has shield").
type Bool struct {
	Or bool `json:"or"`
}

func NewBool() *Bool {
	return &Bool{}
}

func (v *Bool) Join(other Value) error {
	o, ok := other.(*Bool)
	if !ok {
		return cannotJoin(v, other)
	}
	v.Or = v.Or || o.Or
	return nil
}

func (v *Bool) Apply(op operations.Operation) error {
	x, ok := op.Operand.(bool)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		v.Or = x
	case operations.KindOr:
		v.Or = v.Or || x
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

func (v *Bool) Total() bool { return v.Or }

func (v *Bool) Eval() any { return v.Or }

func (v *Bool) Clone() Value {
	c := *v
	return &c
}

// FindState tells how many contributions a Once accumulator has seen.
type FindState uint8

const (
	// NotFound means no source contributed a value.
	NotFound FindState = iota
	// Found means exactly one source contributed.
	Found
	// FoundConflicting means more than one source contributed. The
	// first value is kept but callers should treat it as ambiguous.
	FoundConflicting
)

var findStateNames = [...]string{"not_found", "found", "found_conflicting"}

func (s FindState) String() string {
	if int(s) < len(findStateNames) {
		return findStateNames[s]
	}
	return "unknown"
}

// Once holds a value that at most one source may contribute, for stats
// like an equipped weapon's damage type where duplicates signal a
// conflict rather than something to merge. A second contribution flips
// the state to FoundConflicting even if it carries the same value.
type Once[T any] struct {
	State FindState `json:"state"`
	V     T         `json:"v,omitempty"`
}

func NewOnce[T any]() *Once[T] {
	return &Once[T]{}
}

func (v *Once[T]) Join(other Value) error {
	o, ok := other.(*Once[T])
	if !ok {
		return cannotJoin(v, other)
	}
	switch {
	case o.State == NotFound:
	case v.State == NotFound:
		v.State = o.State
		v.V = o.V
	default:
		v.State = FoundConflicting
	}
	return nil
}

func (v *Once[T]) Apply(op operations.Operation) error {
	x, ok := op.Operand.(T)
	if !ok {
		return wrongOperand(v, op)
	}
	switch op.Kind {
	case operations.KindBase:
		v.State = Found
		v.V = x
	case operations.KindOr:
		if v.State == NotFound {
			v.State = Found
			v.V = x
		} else {
			v.State = FoundConflicting
		}
	default:
		return unsupportedKind(v, op)
	}
	return nil
}

// Value returns the contribution when exactly one source supplied it.
func (v *Once[T]) Value() option.Option[T] {
	if v.State != Found {
		return option.None[T]()
	}
	return option.Some(v.V)
}

func (v *Once[T]) Total() Once[T] { return *v }

func (v *Once[T]) Eval() any { return *v }

func (v *Once[T]) Clone() Value {
	c := *v
	return &c
}
