package pg

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

func setupPgStore(t *testing.T) (*Store, *stat.Registry) {
	t.Helper()
	ctx := context.Background()

	conn, err := testutils.NewPgConn(ctx)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(ctx) })

	reg := stat.NewRegistry()
	for name, kind := range map[string]string{
		"strength": stat.KindFloat,
		"resists":  stat.KindFlags,
	} {
		if _, err := reg.RegisterKind(name, kind); err != nil {
			t.Fatalf("Failed to register %s: %v", name, err)
		}
	}

	st := New(conn, reg)
	st.SetTable("stat_grants_pg_test")
	if err := st.Cleanup(ctx); err != nil {
		t.Fatalf("Failed to drop leftover table: %v", err)
	}
	if err := st.Setup(ctx); err != nil {
		t.Fatalf("Failed to setup store: %v", err)
	}
	t.Cleanup(func() { _ = st.Cleanup(ctx) })

	return st, reg
}

func TestGrantsRoundTrip(t *testing.T) {
	st, reg := setupPgStore(t)
	ctx := context.Background()
	hero := entity.New()

	const sharp qualifier.Flags = 1 << 0
	topBit := qualifier.Flags(uint64(1) << 63)

	_, err := st.Append(ctx,
		store.Row{Entity: hero, Stat: "strength", Op: operations.Base(10.0)},
		store.Row{Entity: hero, Stat: "strength", Q: qualifier.Qualifier{AllOf: sharp}, Op: operations.Add(5.0)},
		store.Row{Entity: hero, Stat: "resists", Q: qualifier.Qualifier{AllOf: topBit}, Op: operations.Or(uint64(1) << 63)},
	)
	require.NoError(t, err)

	loaded, err := st.Load(ctx, hero)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, topBit, loaded[2].Q.AllOf)
	assert.Equal(t, uint64(1)<<63, loaded[2].Op.Operand)

	m, err := store.Restore(reg, loaded)
	require.NoError(t, err)

	strength, _ := reg.Lookup("strength")
	got, err := m.EvalStat(strength, qualifier.Aggregate(sharp))
	require.NoError(t, err)
	assert.Equal(t, 15.0, got)
}

func TestRevokeAndDelete(t *testing.T) {
	st, _ := setupPgStore(t)
	ctx := context.Background()
	hero := entity.New()
	sword := entity.New()

	rows, err := st.Append(ctx,
		store.Row{Entity: hero, Stat: "strength", Op: operations.Base(10.0)},
		store.Row{Entity: hero, Stat: "strength", Op: operations.Add(5.0)},
		store.Row{Entity: sword, Stat: "strength", Op: operations.Add(2.0)},
	)
	require.NoError(t, err)

	n, err := st.Revoke(ctx, rows[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = st.Delete(ctx, hero)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entities, err := st.Entities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Entity{sword}, entities)
}
