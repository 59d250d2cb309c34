// Package stat names the measurable quantities of a game system and binds
// each one to the value kind it accumulates in.
package stat

import (
	"sort"
	"strings"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Stat identifies a registered stat. Values are comparable and safe to use
// as map keys. The zero value names no stat.
type Stat struct {
	name string
}

func (s Stat) Name() string { return s.name }

func (s Stat) IsZero() bool { return s.name == "" }

func (s Stat) String() string { return s.name }

func (s Stat) MarshalText() ([]byte, error) {
	return []byte(s.name), nil
}

func (s *Stat) UnmarshalText(text []byte) error {
	s.name = string(text)
	return nil
}

// Definition binds a stat to its value kind. New returns a fresh
// accumulator seeded to the kind's fold identity.
type Definition struct {
	Kind string
	New  func() types.Value
}

// Registry is the set of known stats. Register everything during startup;
// the registry is not guarded for concurrent mutation, only for reads.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a stat under the given name. Registering the same name
// twice is a no-op when the kinds agree and ErrKindConflict when they do
// not, so plugins can redeclare shared stats safely.
func (r *Registry) Register(name string, def Definition) (Stat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stat{}, ErrBlankName
	}
	if def.New == nil {
		return Stat{}, ErrNilFactory
	}
	if prev, ok := r.defs[name]; ok {
		if prev.Kind != def.Kind {
			return Stat{}, &KindConflictError{Stat: name, Registered: prev.Kind, Proposed: def.Kind}
		}
		return Stat{name: name}, nil
	}
	r.defs[name] = def
	return Stat{name: name}, nil
}

// RegisterKind registers a stat backed by one of the built-in value kinds.
func (r *Registry) RegisterKind(name, kind string) (Stat, error) {
	def, ok := KindDefinition(kind)
	if !ok {
		return Stat{}, ErrUnknownValueKind
	}
	return r.Register(name, def)
}

// Lookup resolves a name to its Stat.
func (r *Registry) Lookup(name string) (Stat, bool) {
	if _, ok := r.defs[name]; !ok {
		return Stat{}, false
	}
	return Stat{name: name}, true
}

// Definition returns the definition a stat was registered with.
func (r *Registry) Definition(s Stat) (Definition, bool) {
	def, ok := r.defs[s.name]
	return def, ok
}

// New allocates a fresh accumulator for the stat.
func (r *Registry) New(s Stat) (types.Value, error) {
	def, ok := r.defs[s.name]
	if !ok {
		return nil, ErrNotRegistered
	}
	return def.New(), nil
}

// Check verifies that the stat's kind accepts the operation, so modifier
// registration can reject mismatched operands before any query runs.
func (r *Registry) Check(s Stat, op operations.Operation) error {
	scratch, err := r.New(s)
	if err != nil {
		return err
	}
	return scratch.Apply(op)
}

// Stats lists every registered stat in name order.
func (r *Registry) Stats() []Stat {
	out := make([]Stat, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, Stat{name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Registry) Len() int { return len(r.defs) }
