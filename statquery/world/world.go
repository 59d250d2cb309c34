// Package world hosts entities and their stat maps in memory.
//
// A World owns one StatMap per entity plus the parent links that form an
// entity hierarchy: a child's modifiers count toward its ancestors, so a
// sword spawned under a hero adds to the hero's totals, and a gem socketed
// into the sword does too. World implements both querier.ModifierSource and
// querier.RelationSource, so a single value wires a whole hierarchy into a
// Querier.
//
// Every mutation announces the entities whose query results it may have
// changed, the mutated entity and each of its ancestors, through the Changed
// signal. Nothing listens by default; hosts that cache evaluations opt in
// with ConnectInvalidation. Mutating the world while a query is running on
// another goroutine is not supported.
package world

import (
	"sync"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/querier"
	"github.com/krew-solutions/stat-query-go/statquery/signals"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/statmap"
)

// Change announces that query results involving Entity may have changed,
// either because its own stat map was mutated or because the mutation
// happened somewhere in its subtree.
type Change struct {
	Entity entity.Entity
}

// World is an in-memory entity host. All methods are safe for concurrent
// use; the Changed signal itself expects observers to be attached before
// mutations begin.
type World struct {
	mu       sync.RWMutex
	reg      *stat.Registry
	maps     map[entity.Entity]*statmap.StatMap
	parents  map[entity.Entity]entity.Entity
	children map[entity.Entity][]entity.Entity
	changed  *signals.SignalImp[Change]
}

func New(reg *stat.Registry) *World {
	return &World{
		reg:      reg,
		maps:     make(map[entity.Entity]*statmap.StatMap),
		parents:  make(map[entity.Entity]entity.Entity),
		children: make(map[entity.Entity][]entity.Entity),
		changed:  signals.NewSignal[Change](),
	}
}

func (w *World) Registry() *stat.Registry { return w.reg }

// Changed is the mutation signal. Observers receive one Change per affected
// entity, innermost first.
func (w *World) Changed() signals.Signal[Change] { return w.changed }

// ConnectInvalidation forwards Change events to c.Invalidate, so cached
// evaluations of a mutated entity and its ancestors are dropped as soon as
// the mutation lands. The returned Detach severs the link.
func (w *World) ConnectInvalidation(c querier.Cache) signals.Detach {
	return w.changed.Attach(func(ev Change) {
		c.Invalidate(ev.Entity)
	}, c)
}

// Spawn hosts a new entity with an empty stat map. A fresh entity carries no
// modifiers, so no change is announced.
func (w *World) Spawn() entity.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := entity.New()
	w.maps[e] = statmap.New(w.reg)
	return e
}

// SpawnChild hosts a new entity under parent.
func (w *World) SpawnChild(parent entity.Entity) (entity.Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.maps[parent]; !ok {
		return entity.Entity{}, unknownEntity(parent)
	}
	e := entity.New()
	w.maps[e] = statmap.New(w.reg)
	w.parents[e] = parent
	w.children[parent] = append(w.children[parent], e)
	return e, nil
}

// Adopt hosts an externally built stat map under a new entity, the load path
// for maps restored from a store. The map must be bound to the world's
// registry; ownership transfers to the world.
func (w *World) Adopt(m *statmap.StatMap) (entity.Entity, error) {
	if m.Registry() != w.reg {
		return entity.Entity{}, ErrRegistryMismatch
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	e := entity.New()
	w.maps[e] = m
	return e, nil
}

// Despawn removes the entity. Its children are orphaned, not removed, and
// keep their stat maps.
func (w *World) Despawn(e entity.Entity) error {
	return w.mutate(func() ([]entity.Entity, error) {
		if _, ok := w.maps[e]; !ok {
			return nil, unknownEntity(e)
		}
		affected := w.lineageLocked(e)
		if p, ok := w.parents[e]; ok {
			w.detachChildLocked(p, e)
		}
		for _, c := range w.children[e] {
			delete(w.parents, c)
		}
		delete(w.children, e)
		delete(w.parents, e)
		delete(w.maps, e)
		return affected, nil
	})
}

// SetParent moves child under parent, detaching it from any previous parent.
// Both hierarchies' ancestors are announced, since the child's subtree stops
// counting toward one and starts counting toward the other.
func (w *World) SetParent(child, parent entity.Entity) error {
	return w.mutate(func() ([]entity.Entity, error) {
		if _, ok := w.maps[child]; !ok {
			return nil, unknownEntity(child)
		}
		if _, ok := w.maps[parent]; !ok {
			return nil, unknownEntity(parent)
		}
		for p, ok := parent, true; ok; p, ok = w.parents[p] {
			if p == child {
				return nil, ErrHierarchyCycle
			}
		}
		var affected []entity.Entity
		if old, ok := w.parents[child]; ok {
			if old == parent {
				return nil, nil
			}
			w.detachChildLocked(old, child)
			affected = w.lineageLocked(old)
		}
		w.parents[child] = parent
		w.children[parent] = append(w.children[parent], child)
		return dedup(append(affected, w.lineageLocked(parent)...)), nil
	})
}

// ClearParent orphans child. Clearing an already parentless child is a no-op.
func (w *World) ClearParent(child entity.Entity) error {
	return w.mutate(func() ([]entity.Entity, error) {
		if _, ok := w.maps[child]; !ok {
			return nil, unknownEntity(child)
		}
		old, ok := w.parents[child]
		if !ok {
			return nil, nil
		}
		w.detachChildLocked(old, child)
		delete(w.parents, child)
		return w.lineageLocked(old), nil
	})
}

func (w *World) Contains(e entity.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.maps[e]
	return ok
}

func (w *World) Parent(e entity.Entity) (entity.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.parents[e]
	return p, ok
}

func (w *World) Children(e entity.Entity) []entity.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]entity.Entity(nil), w.children[e]...)
}

func (w *World) Entities() []entity.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]entity.Entity, 0, len(w.maps))
	for e := range w.maps {
		out = append(out, e)
	}
	return out
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.maps)
}

// mutate runs fn under the write lock and announces the affected entities it
// returns after the lock is released, so observers never run inside it.
func (w *World) mutate(fn func() ([]entity.Entity, error)) error {
	w.mu.Lock()
	affected, err := fn()
	w.mu.Unlock()
	if err != nil {
		return err
	}
	for _, e := range affected {
		w.changed.Notify(Change{Entity: e})
	}
	return nil
}

// lineageLocked lists e and its ancestors, innermost first.
func (w *World) lineageLocked(e entity.Entity) []entity.Entity {
	out := []entity.Entity{e}
	seen := map[entity.Entity]struct{}{e: {}}
	for {
		p, ok := w.parents[e]
		if !ok {
			return out
		}
		if _, dup := seen[p]; dup {
			return out
		}
		seen[p] = struct{}{}
		out = append(out, p)
		e = p
	}
}

func (w *World) descendantsLocked(e entity.Entity) []entity.Entity {
	var out []entity.Entity
	stack := append([]entity.Entity(nil), w.children[e]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		stack = append(stack, w.children[n]...)
	}
	return out
}

func (w *World) detachChildLocked(parent, child entity.Entity) {
	cs := w.children[parent]
	for i, c := range cs {
		if c == child {
			w.children[parent] = append(cs[:i], cs[i+1:]...)
			return
		}
	}
}

func dedup(es []entity.Entity) []entity.Entity {
	seen := make(map[entity.Entity]struct{}, len(es))
	out := es[:0]
	for _, e := range es {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
