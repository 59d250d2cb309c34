package pgx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/store"
	"github.com/krew-solutions/stat-query-go/statquery/utils/testutils"
)

func setupPoolStore(t *testing.T) (*Store, *stat.Registry) {
	t.Helper()
	ctx := context.Background()

	pool, err := testutils.NewPgxPool(ctx)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	reg := stat.NewRegistry()
	if _, err := reg.RegisterKind("strength", stat.KindFloat); err != nil {
		t.Fatalf("Failed to register strength: %v", err)
	}

	st := New(pool, reg)
	st.SetTable("stat_grants_pgx_test")
	if err := st.Cleanup(ctx); err != nil {
		t.Fatalf("Failed to drop leftover table: %v", err)
	}
	if err := st.Setup(ctx); err != nil {
		t.Fatalf("Failed to setup store: %v", err)
	}
	t.Cleanup(func() { _ = st.Cleanup(ctx) })

	return st, reg
}

func TestBatchedAppend(t *testing.T) {
	st, reg := setupPoolStore(t)
	ctx := context.Background()
	hero := entity.New()

	rows := make([]store.Row, 0, 50)
	rows = append(rows, store.Row{Entity: hero, Stat: "strength", Op: operations.Base(1.0)})
	for i := 1; i < 50; i++ {
		rows = append(rows, store.Row{Entity: hero, Stat: "strength", Op: operations.Add(1.0)})
	}

	stored, err := st.Append(ctx, rows...)
	require.NoError(t, err)
	require.Len(t, stored, 50)
	for i := 1; i < len(stored); i++ {
		require.True(t, stored[i-1].ID.Compare(stored[i].ID) < 0, "row %d out of order", i)
	}

	loaded, err := st.Load(ctx, hero)
	require.NoError(t, err)
	require.Len(t, loaded, 50)

	m, err := store.Restore(reg, loaded)
	require.NoError(t, err)

	strength, _ := reg.Lookup("strength")
	got, err := m.EvalStat(strength, qualifier.Aggregate(0))
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)
}

func TestDeleteClearsTheEntity(t *testing.T) {
	st, _ := setupPoolStore(t)
	ctx := context.Background()
	hero := entity.New()

	_, err := st.Append(ctx,
		store.Row{Entity: hero, Stat: "strength", Op: operations.Base(10.0)},
		store.Row{Entity: hero, Stat: "strength", Op: operations.Add(5.0)},
	)
	require.NoError(t, err)

	n, err := st.Delete(ctx, hero)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entities, err := st.Entities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)
}
