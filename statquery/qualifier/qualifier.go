// Package qualifier implements flag-set descriptors that narrow which
// modifiers apply to a stat request, and the matching rule between a stored
// qualifier and a request-side query.
package qualifier

// Flags is a bit set over an application-defined domain of adjectives such
// as "fire" or "piercing". The domain is separate from the stat namespace.
type Flags uint64

// Contains reports whether every bit of other is set in f.
func (f Flags) Contains(other Flags) bool {
	return f&other == other
}

// Intersects reports whether f and other share at least one bit.
func (f Flags) Intersects(other Flags) bool {
	return f&other != 0
}

// IsEmpty reports whether no bit is set.
func (f Flags) IsEmpty() bool {
	return f == 0
}

// Qualifier describes what a stored modifier applies to. AllOf bits must all
// be present on a matching aggregate query; the single optional AnyOf group
// requires at least one shared bit. The zero value is the universal
// qualifier and matches every aggregate query.
type Qualifier struct {
	AnyOf Flags
	AllOf Flags
}

// AnyOf builds a qualifier with only an any-of group.
func AnyOf(flags Flags) Qualifier {
	return Qualifier{AnyOf: flags}
}

// AllOf builds a qualifier with only an all-of set.
func AllOf(flags Flags) Qualifier {
	return Qualifier{AllOf: flags}
}

// AndAnyOf returns a copy with extra bits merged into the any-of group.
func (q Qualifier) AndAnyOf(flags Flags) Qualifier {
	q.AnyOf |= flags
	return q
}

// AndAllOf returns a copy with extra bits merged into the all-of set.
func (q Qualifier) AndAllOf(flags Flags) Qualifier {
	q.AllOf |= flags
	return q
}

// IsEmpty reports whether the qualifier is the universal one.
func (q Qualifier) IsEmpty() bool {
	return q.AnyOf == 0 && q.AllOf == 0
}

// Matches reports whether a modifier stored under q applies to the query.
//
// Under Aggregate the stored all-of set must be a subset of the queried
// flags and the stored any-of group, when present, must intersect them.
// Under Exact both flag sets must be bitwise equal, absent groups included.
func (q Qualifier) Matches(query Query) bool {
	if query.exact {
		return q.AllOf == query.allOf && q.AnyOf == query.anyOf
	}
	return query.allOf.Contains(q.AllOf) &&
		(q.AnyOf == 0 || q.AnyOf.Intersects(query.allOf))
}

// Query is the request-side counterpart of a Qualifier. Its zero value is
// Aggregate over the empty flag set, which only the universal qualifier
// matches. Query is comparable and doubles as part of the evaluation key.
type Query struct {
	exact bool
	anyOf Flags
	allOf Flags
}

// Aggregate matches every stored qualifier that is the queried flags or a
// generalization of them.
func Aggregate(flags Flags) Query {
	return Query{allOf: flags}
}

// Exact matches only stored qualifiers bitwise equal to q. It exists to
// avoid double counting when a narrow query must not also receive broader,
// already counted modifiers.
func Exact(q Qualifier) Query {
	return Query{exact: true, anyOf: q.AnyOf, allOf: q.AllOf}
}

// IsExact reports whether the query requires bitwise equality.
func (q Query) IsExact() bool {
	return q.exact
}

// Flags returns the queried flag sets. For aggregate queries anyOf is zero.
func (q Query) Flags() (anyOf, allOf Flags) {
	return q.anyOf, q.allOf
}
