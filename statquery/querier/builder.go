package querier

import (
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/statmap"
)

// Builder accumulates the engine's collaborators before construction.
// Registration is configuration, done once at setup time; the built
// Querier never mutates the collaborator lists again.
type Builder struct {
	reg       *stat.Registry
	defaults  *statmap.Defaults
	sources   []ModifierSource
	relations []RelationSource
	globals   []ModifierSource
	pairs     []PairSource
	cache     Cache
}

func NewBuilder(reg *stat.Registry) *Builder {
	return &Builder{reg: reg}
}

// WithDefaults attaches the global defaults collaborator that seeds base
// values and clamp bounds.
func (b *Builder) WithDefaults(d *statmap.Defaults) *Builder {
	b.defaults = d
	return b
}

// WithSource attaches modifier sources swept for the queried entity and
// for every entity the relation sources expand to.
func (b *Builder) WithSource(sources ...ModifierSource) *Builder {
	b.sources = append(b.sources, sources...)
	return b
}

// WithRelation attaches relation sources that expand the swept entity set.
func (b *Builder) WithRelation(relations ...RelationSource) *Builder {
	b.relations = append(b.relations, relations...)
	return b
}

// WithGlobal attaches modifier sources consulted once per query regardless
// of relations, for world-wide modifiers.
func (b *Builder) WithGlobal(sources ...ModifierSource) *Builder {
	b.globals = append(b.globals, sources...)
	return b
}

// WithPair attaches pair sources consulted by EvalRelation.
func (b *Builder) WithPair(pairs ...PairSource) *Builder {
	b.pairs = append(b.pairs, pairs...)
	return b
}

// WithCache attaches a shared cache for completed folds.
func (b *Builder) WithCache(c Cache) *Builder {
	b.cache = c
	return b
}

func (b *Builder) Build() (*Querier, error) {
	if b.reg == nil {
		return nil, ErrNoRegistry
	}
	return &Querier{
		reg:       b.reg,
		defaults:  b.defaults,
		sources:   append([]ModifierSource(nil), b.sources...),
		relations: append([]RelationSource(nil), b.relations...),
		globals:   append([]ModifierSource(nil), b.globals...),
		pairs:     append([]PairSource(nil), b.pairs...),
		cache:     b.cache,
	}, nil
}
