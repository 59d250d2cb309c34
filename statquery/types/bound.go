package types

import "cmp"

// Bound is a clamp boundary that is absent until the first Min or Max
// operation folds into it. Min operations raise a lower bound, Max
// operations lower an upper bound; both directions are commutative.
type Bound[T cmp.Ordered] struct {
	Set bool `json:"set,omitempty"`
	V   T    `json:"v,omitempty"`
}

// Raise tightens a lower bound upward.
func (b *Bound[T]) Raise(x T) {
	if !b.Set || x > b.V {
		b.Set, b.V = true, x
	}
}

// Lower tightens an upper bound downward.
func (b *Bound[T]) Lower(x T) {
	if !b.Set || x < b.V {
		b.Set, b.V = true, x
	}
}

// clamp caps x by the upper bound first, then floors it by the lower bound,
// so a contradictory pair resolves in favor of the lower bound.
func clamp[T cmp.Ordered](x T, lo, hi Bound[T]) T {
	if hi.Set && x > hi.V {
		x = hi.V
	}
	if lo.Set && x < lo.V {
		x = lo.V
	}
	return x
}
