// Package querier evaluates stats across modifier sources: it sweeps every
// collaborator attached to an entity, filters contributions by qualifier,
// folds them through the commutative value algebra, caches completed folds
// and detects cross-stat dependency cycles.
package querier

import (
	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Emitter receives one source's contributions toward the stat under query.
// The engine filters each contribution against the active query before
// folding, so sources emit everything they hold and stay matcher-agnostic.
type Emitter interface {
	// Op contributes a single qualified operation.
	Op(q qualifier.Qualifier, op operations.Operation) error
	// Value contributes a qualified pre-folded accumulator.
	Value(q qualifier.Qualifier, v types.Value) error
}

// ModifierSource contributes the modifiers it holds for one entity and
// stat. Sources may issue recursive sub-queries through cx; they receive
// no mutation surface, the entity graph is read-only during a query.
type ModifierSource interface {
	Contribute(cx *Context, e entity.Entity, s stat.Stat, out Emitter) error
}

// SourceFunc adapts a function to a ModifierSource.
type SourceFunc func(cx *Context, e entity.Entity, s stat.Stat, out Emitter) error

func (f SourceFunc) Contribute(cx *Context, e entity.Entity, s stat.Stat, out Emitter) error {
	return f(cx, e, s, out)
}

// RelationSource expands a query to related entities: every entity it
// yields is swept with the same modifier sources as the queried entity,
// into the same accumulator. Purely structural, no value semantics.
type RelationSource interface {
	Relations(cx *Context, e entity.Entity) ([]entity.Entity, error)
}

// RelationFunc adapts a function to a RelationSource.
type RelationFunc func(cx *Context, e entity.Entity) ([]entity.Entity, error)

func (f RelationFunc) Relations(cx *Context, e entity.Entity) ([]entity.Entity, error) {
	return f(cx, e)
}

// PairSource contributes modifiers defined between two entities, such as
// distance or allegiance effects. Consulted only by EvalRelation.
type PairSource interface {
	ContributePair(cx *Context, from, to entity.Entity, s stat.Stat, out Emitter) error
}

// PairFunc adapts a function to a PairSource.
type PairFunc func(cx *Context, from, to entity.Entity, s stat.Stat, out Emitter) error

func (f PairFunc) ContributePair(cx *Context, from, to entity.Entity, s stat.Stat, out Emitter) error {
	return f(cx, from, to, s, out)
}

// Cache memoizes completed folds by evaluation key. Implementations must
// exchange copies in both directions and tolerate concurrent use; racing
// writers may both store, last write wins, since recomputation is
// idempotent against a fixed modifier snapshot.
type Cache interface {
	Get(k Key) (types.Value, bool)
	Put(k Key, v types.Value)
	// Invalidate drops every entry of the entity and reports how many.
	Invalidate(e entity.Entity) int
	InvalidateAll()
}

// Evaluator is the query surface shared by Querier and Context, so the
// same helpers serve top-level calls and recursive sub-queries.
type Evaluator interface {
	Eval(e entity.Entity, query qualifier.Query, s stat.Stat) (any, error)
	QueryStat(e entity.Entity, query qualifier.Query, s stat.Stat) (types.Value, error)
	EvalRelation(from, to entity.Entity, query qualifier.Query, s stat.Stat) (any, error)
}

// EvalAs evaluates through ev and asserts the result type.
func EvalAs[T any](ev Evaluator, e entity.Entity, query qualifier.Query, s stat.Stat) (T, error) {
	out, err := ev.Eval(e, query, s)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		var zero T
		return zero, &MismatchError{Stat: s, Got: out, Want: zero}
	}
	return typed, nil
}
