package world

import (
	"encoding/json"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/option"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Modify folds op into the entity's accumulator under q, creating it when
// absent.
func (w *World) Modify(e entity.Entity, s stat.Stat, q qualifier.Qualifier, op operations.Operation) error {
	return w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if err := m.Modify(s, q, op); err != nil {
			return nil, err
		}
		return w.lineageLocked(e), nil
	})
}

// Insert stores a prebuilt accumulator under q, replacing any previous one.
func (w *World) Insert(e entity.Entity, s stat.Stat, q qualifier.Qualifier, v types.Value) error {
	return w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if err := m.Insert(s, q, v); err != nil {
			return nil, err
		}
		return w.lineageLocked(e), nil
	})
}

// InsertBase seeds the accumulator under q with a base operand.
func (w *World) InsertBase(e entity.Entity, s stat.Stat, q qualifier.Qualifier, base any) error {
	return w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if err := m.InsertBase(s, q, base); err != nil {
			return nil, err
		}
		return w.lineageLocked(e), nil
	})
}

// Remove drops the accumulator stored under exactly q. Removing an absent
// entry reports false and announces nothing.
func (w *World) Remove(e entity.Entity, s stat.Stat, q qualifier.Qualifier) (bool, error) {
	var removed bool
	err := w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if removed = m.Remove(s, q); !removed {
			return nil, nil
		}
		return w.lineageLocked(e), nil
	})
	return removed, err
}

// RemoveStat drops every accumulator of s and reports how many there were.
func (w *World) RemoveStat(e entity.Entity, s stat.Stat) (int, error) {
	var n int
	err := w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if n = m.RemoveStat(s); n == 0 {
			return nil, nil
		}
		return w.lineageLocked(e), nil
	})
	return n, err
}

// Find returns a copy of the accumulator stored under exactly q, None when
// the entity is unknown or holds no such entry.
func (w *World) Find(e entity.Entity, s stat.Stat, q qualifier.Qualifier) option.Option[types.Value] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.maps[e]
	if !ok {
		return option.None[types.Value]()
	}
	return m.Find(s, q)
}

// Stats lists the stats the entity itself carries entries for, sorted by
// name. Descendant contributions are not included.
func (w *World) Stats(e entity.Entity) ([]stat.Stat, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.maps[e]
	if !ok {
		return nil, unknownEntity(e)
	}
	return m.Stats(), nil
}

// Export serializes the entity's own stat map.
func (w *World) Export(e entity.Entity) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.maps[e]
	if !ok {
		return nil, unknownEntity(e)
	}
	return json.Marshal(m)
}

// Import replaces the entity's stat map with the serialized one. On decode
// errors the current map is kept and nothing is announced.
func (w *World) Import(e entity.Entity, data []byte) error {
	return w.mutate(func() ([]entity.Entity, error) {
		m, ok := w.maps[e]
		if !ok {
			return nil, unknownEntity(e)
		}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, err
		}
		return w.lineageLocked(e), nil
	})
}
