// Package store persists modifier grants. A grant is one operation applied
// to one entity's stat under a qualifier; backends keep grants as rows and
// hand them back oldest first, so replaying them rebuilds the entity's
// folded map. Postgres backends live in store/pg (pgx v4 connections) and
// store/pgx (pgx v5 pools); store/sql speaks database/sql.
package store

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/statmap"
)

// Row is one persisted grant: which entity, which stat, when the grant
// applies and what it does. Stats travel by name so rows outlive registry
// instances; flag operands persist as raw bits.
type Row struct {
	ID     ulid.ULID
	Entity entity.Entity
	Stat   string
	Q      qualifier.Qualifier
	Op     operations.Operation
}

// Store is the persistence port for grants.
//
// Append assigns fresh ids and returns the stored rows; callers keep the
// ids to Revoke single grants later. Load returns an entity's rows oldest
// first. Delete removes every row of an entity, Revoke removes chosen
// rows; both report how many rows went away. Setup and Cleanup manage the
// backing table.
type Store interface {
	Append(ctx context.Context, rows ...Row) ([]Row, error)
	Load(ctx context.Context, e entity.Entity) ([]Row, error)
	Entities(ctx context.Context) ([]entity.Entity, error)
	Revoke(ctx context.Context, ids ...ulid.ULID) (int, error)
	Delete(ctx context.Context, e entity.Entity) (int, error)
	Setup(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

// Restore replays rows into a fresh map bound to reg. Rows replay in
// slice order, so feeding it Load output rebuilds the map the grants
// built up. Every stat must be registered and every operand must fold
// into its kind, which makes Restore the type check for foreign data.
func Restore(reg *stat.Registry, rows []Row) (*statmap.StatMap, error) {
	m := statmap.New(reg)
	for _, r := range rows {
		s, ok := reg.Lookup(r.Stat)
		if !ok {
			return nil, fmt.Errorf("store: row %s: %w: %q", r.ID, stat.ErrNotRegistered, r.Stat)
		}
		if err := m.Modify(s, r.Q, r.Op); err != nil {
			return nil, fmt.Errorf("store: row %s: %w", r.ID, err)
		}
	}
	return m, nil
}
