package world

import (
	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/querier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
)

var (
	_ querier.ModifierSource = (*World)(nil)
	_ querier.RelationSource = (*World)(nil)
)

// Contribute forwards the entity's stored entries for s. Unknown entities
// contribute nothing.
func (w *World) Contribute(_ *querier.Context, e entity.Entity, s stat.Stat, out querier.Emitter) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.maps[e]
	if !ok {
		return nil
	}
	return m.Each(s, out.Value)
}

// Relations reports the entity's whole subtree, so modifiers carried by
// equipment, and by anything socketed into that equipment, count toward the
// entity they hang under.
func (w *World) Relations(_ *querier.Context, e entity.Entity) ([]entity.Entity, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.descendantsLocked(e), nil
}
