package querier

import (
	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Context carries the in-flight key stack of one top-level evaluation.
// Sources issue recursive sub-queries through it, which is how cross-stat
// dependencies are expressed and how the cycle check sees them. A Context
// lives for exactly one top-level call and is never shared across
// goroutines.
type Context struct {
	q     *Querier
	stack []Key
}

// push guards the key against re-entry. On a repeat it reports the path
// from the key's first occurrence back to its recurrence.
func (cx *Context) push(k Key) error {
	for i, inFlight := range cx.stack {
		if inFlight == k {
			path := make([]Key, 0, len(cx.stack)-i+1)
			path = append(path, cx.stack[i:]...)
			path = append(path, k)
			return &CycleError{Path: path}
		}
	}
	cx.stack = append(cx.stack, k)
	return nil
}

func (cx *Context) pop() {
	cx.stack = cx.stack[:len(cx.stack)-1]
}

// Eval computes the stat's value for the entity under the query.
func (cx *Context) Eval(e entity.Entity, query qualifier.Query, s stat.Stat) (any, error) {
	v, err := cx.QueryStat(e, query, s)
	if err != nil {
		return nil, err
	}
	return v.Eval(), nil
}

// QueryStat computes the folded accumulator behind Eval. The caller owns
// the returned value.
func (cx *Context) QueryStat(e entity.Entity, query qualifier.Query, s stat.Stat) (types.Value, error) {
	k := Key{Entity: e, Query: query, Stat: s}

	if cache := cx.q.cache; cache != nil {
		if v, ok := cache.Get(k); ok {
			return v, nil
		}
	}

	if err := cx.push(k); err != nil {
		return nil, err
	}
	acc, contributed, err := cx.fold(e, query, s)
	cx.pop()
	if err != nil {
		return nil, err
	}
	if !contributed {
		return nil, &NotFoundError{Key: k}
	}

	if cache := cx.q.cache; cache != nil {
		cache.Put(k, acc)
	}
	return acc, nil
}

// fold runs the source sweep: seed from defaults, expand the entity set
// through relation sources, collect from every modifier source for every
// target, then consult global sources once. Contributions are filtered by
// the query before folding.
func (cx *Context) fold(e entity.Entity, query qualifier.Query, s stat.Stat) (types.Value, bool, error) {
	acc, err := cx.q.reg.New(s)
	if err != nil {
		return nil, false, err
	}

	seeded := false
	if d := cx.q.defaults; d != nil {
		if base, ok := d.Find(s).Get(); ok {
			if err := acc.Join(base); err != nil {
				return nil, false, err
			}
			seeded = true
		}
	}

	col := &collector{query: query, acc: acc}

	targets := []entity.Entity{e}
	if len(cx.q.relations) > 0 {
		seen := map[entity.Entity]bool{e: true}
		for _, rs := range cx.q.relations {
			related, err := rs.Relations(cx, e)
			if err != nil {
				return nil, false, err
			}
			for _, r := range related {
				if seen[r] {
					continue
				}
				seen[r] = true
				targets = append(targets, r)
			}
		}
	}

	for _, target := range targets {
		for _, src := range cx.q.sources {
			if err := src.Contribute(cx, target, s, col); err != nil {
				return nil, false, err
			}
		}
	}
	for _, src := range cx.q.globals {
		if err := src.Contribute(cx, e, s, col); err != nil {
			return nil, false, err
		}
	}

	return acc, seeded || col.n > 0, nil
}

// EvalRelation computes a stat defined between two entities by sweeping
// the pair sources. Relation evaluations are not keyed: they bypass the
// cache, and the cycle check covers only the entity sub-queries they
// issue through cx.
func (cx *Context) EvalRelation(from, to entity.Entity, query qualifier.Query, s stat.Stat) (any, error) {
	acc, err := cx.q.reg.New(s)
	if err != nil {
		return nil, err
	}

	seeded := false
	if d := cx.q.defaults; d != nil {
		if base, ok := d.Find(s).Get(); ok {
			if err := acc.Join(base); err != nil {
				return nil, err
			}
			seeded = true
		}
	}

	col := &collector{query: query, acc: acc}
	for _, src := range cx.q.pairs {
		if err := src.ContributePair(cx, from, to, s, col); err != nil {
			return nil, err
		}
	}

	if !seeded && col.n == 0 {
		return nil, &NotFoundError{Key: Key{Entity: from, Query: query, Stat: s}}
	}
	return acc.Eval(), nil
}

// collector is the engine-side Emitter: it filters each contribution
// against the active query and folds matches into the accumulator.
type collector struct {
	query qualifier.Query
	acc   types.Value
	n     int
}

func (c *collector) Op(q qualifier.Qualifier, op operations.Operation) error {
	if !q.Matches(c.query) {
		return nil
	}
	if err := c.acc.Apply(op); err != nil {
		return err
	}
	c.n++
	return nil
}

func (c *collector) Value(q qualifier.Qualifier, v types.Value) error {
	if !q.Matches(c.query) {
		return nil
	}
	if err := c.acc.Join(v); err != nil {
		return err
	}
	c.n++
	return nil
}
