package querier

import (
	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/statmap"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Querier is the assembled engine. It is immutable after Build and safe
// for concurrent use when its sources and cache are; each top-level call
// runs on its own Context.
type Querier struct {
	reg       *stat.Registry
	defaults  *statmap.Defaults
	sources   []ModifierSource
	relations []RelationSource
	globals   []ModifierSource
	pairs     []PairSource
	cache     Cache
}

// Eval is the single entry point: compute the stat's value for the entity
// under the query.
func (q *Querier) Eval(e entity.Entity, query qualifier.Query, s stat.Stat) (any, error) {
	cx := &Context{q: q}
	return cx.Eval(e, query, s)
}

// QueryStat returns the folded accumulator behind Eval.
func (q *Querier) QueryStat(e entity.Entity, query qualifier.Query, s stat.Stat) (types.Value, error) {
	cx := &Context{q: q}
	return cx.QueryStat(e, query, s)
}

// EvalRelation computes a stat defined between two entities.
func (q *Querier) EvalRelation(from, to entity.Entity, query qualifier.Query, s stat.Stat) (any, error) {
	cx := &Context{q: q}
	return cx.EvalRelation(from, to, query, s)
}

// Registry exposes the stat registry the engine folds against.
func (q *Querier) Registry() *stat.Registry { return q.reg }
