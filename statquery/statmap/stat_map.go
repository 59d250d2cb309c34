// Package statmap stores folded stat values addressed by stat and
// qualifier, the per-entity building block the query engine reads from.
package statmap

import (
	"sort"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/option"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

type entry struct {
	q qualifier.Qualifier
	v types.Value
}

// StatMap holds one folded accumulator per (stat, qualifier) pair. Writes
// fold eagerly, so operand mismatches surface at the write call and every
// stored value is already collapsed to the monoid.
//
// A StatMap is not guarded; callers that share one across goroutines wrap
// it the way world.World does.
type StatMap struct {
	reg     *stat.Registry
	entries map[stat.Stat][]entry
}

func New(reg *stat.Registry) *StatMap {
	return &StatMap{
		reg:     reg,
		entries: make(map[stat.Stat][]entry),
	}
}

func (m *StatMap) Registry() *stat.Registry { return m.reg }

func entryLess(a, b qualifier.Qualifier) bool {
	if a.AnyOf != b.AnyOf {
		return a.AnyOf < b.AnyOf
	}
	return a.AllOf < b.AllOf
}

func (m *StatMap) search(s stat.Stat, q qualifier.Qualifier) (int, bool) {
	entries := m.entries[s]
	i := sort.Search(len(entries), func(i int) bool {
		return !entryLess(entries[i].q, q)
	})
	return i, i < len(entries) && entries[i].q == q
}

// Insert stores a pre-folded accumulator, replacing any previous value
// under the same stat and qualifier. The value must be of the stat's
// registered kind.
func (m *StatMap) Insert(s stat.Stat, q qualifier.Qualifier, v types.Value) error {
	scratch, err := m.reg.New(s)
	if err != nil {
		return err
	}
	if err := scratch.Join(v); err != nil {
		return err
	}

	i, found := m.search(s, q)
	if found {
		m.entries[s][i].v = v
		return nil
	}
	entries := append(m.entries[s], entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = entry{q: q, v: v}
	m.entries[s] = entries
	return nil
}

// InsertBase seeds the accumulator under (s, q) with a base operand,
// replacing whatever the accumulator held before.
func (m *StatMap) InsertBase(s stat.Stat, q qualifier.Qualifier, base any) error {
	return m.Modify(s, q, operations.Base(base))
}

// Modify folds one operation into the accumulator under (s, q), creating
// a fresh accumulator when the pair is absent.
func (m *StatMap) Modify(s stat.Stat, q qualifier.Qualifier, op operations.Operation) error {
	i, found := m.search(s, q)
	if found {
		return m.entries[s][i].v.Apply(op)
	}

	v, err := m.reg.New(s)
	if err != nil {
		return err
	}
	if err := v.Apply(op); err != nil {
		return err
	}
	entries := append(m.entries[s], entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = entry{q: q, v: v}
	m.entries[s] = entries
	return nil
}

// Find returns a copy of the accumulator stored under exactly (s, q).
func (m *StatMap) Find(s stat.Stat, q qualifier.Qualifier) option.Option[types.Value] {
	i, found := m.search(s, q)
	if !found {
		return option.None[types.Value]()
	}
	return option.Some(m.entries[s][i].v.Clone())
}

// Remove drops the entry stored under exactly (s, q).
func (m *StatMap) Remove(s stat.Stat, q qualifier.Qualifier) bool {
	i, found := m.search(s, q)
	if !found {
		return false
	}
	entries := m.entries[s]
	copy(entries[i:], entries[i+1:])
	entries = entries[:len(entries)-1]
	if len(entries) == 0 {
		delete(m.entries, s)
	} else {
		m.entries[s] = entries
	}
	return true
}

// RemoveStat drops every entry of the stat and reports how many there were.
func (m *StatMap) RemoveStat(s stat.Stat) int {
	n := len(m.entries[s])
	delete(m.entries, s)
	return n
}

func (m *StatMap) Clear() {
	m.entries = make(map[stat.Stat][]entry)
}

// Len counts stored (stat, qualifier) entries.
func (m *StatMap) Len() int {
	n := 0
	for _, entries := range m.entries {
		n += len(entries)
	}
	return n
}

// Stats lists the stats with at least one entry, in name order.
func (m *StatMap) Stats() []stat.Stat {
	out := make([]stat.Stat, 0, len(m.entries))
	for s := range m.entries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Each visits the stat's entries in qualifier order until fn errors.
func (m *StatMap) Each(s stat.Stat, fn func(q qualifier.Qualifier, v types.Value) error) error {
	for _, e := range m.entries[s] {
		if err := fn(e.q, e.v); err != nil {
			return err
		}
	}
	return nil
}

// QueryStat joins every entry whose stored qualifier matches the query
// into out and reports how many entries matched.
func (m *StatMap) QueryStat(s stat.Stat, query qualifier.Query, out types.Value) (int, error) {
	n := 0
	for _, e := range m.entries[s] {
		if !e.q.Matches(query) {
			continue
		}
		if err := out.Join(e.v); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// EvalStat folds the matching entries into a fresh accumulator and
// evaluates it. Zero matches evaluate the kind's identity.
func (m *StatMap) EvalStat(s stat.Stat, query qualifier.Query) (any, error) {
	out, err := m.reg.New(s)
	if err != nil {
		return nil, err
	}
	if _, err := m.QueryStat(s, query, out); err != nil {
		return nil, err
	}
	return out.Eval(), nil
}
