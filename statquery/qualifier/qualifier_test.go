package qualifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	frost Flags = 1 << iota
	fire
	water
	magic
	piercing
	sword
	physical
)

const elemental = frost | fire | water

func TestAggregateMatching(t *testing.T) {
	query := Aggregate(frost | piercing | magic)

	matching := []struct {
		name   string
		stored Qualifier
	}{
		{"universal", Qualifier{}},
		{"frost", AllOf(frost)},
		{"frost and magic", AllOf(frost | magic)},
		{"full set", AllOf(frost | piercing | magic)},
		{"elemental any-of", AnyOf(elemental)},
	}
	for _, c := range matching {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, c.stored.Matches(query))
		})
	}

	rejected := []struct {
		name   string
		stored Qualifier
	}{
		{"frost and sword", AllOf(frost | sword)},
		{"disjoint any-of", AnyOf(physical | sword)},
		{"broader all-of", AllOf(elemental)},
	}
	for _, c := range rejected {
		t.Run(c.name, func(t *testing.T) {
			assert.False(t, c.stored.Matches(query))
		})
	}
}

func TestAggregateAnyOfWithoutAllOf(t *testing.T) {
	// An any-of group with an empty all-of set still requires the
	// intersection test.
	stored := AnyOf(elemental)
	assert.True(t, stored.Matches(Aggregate(fire)))
	assert.False(t, stored.Matches(Aggregate(sword)))
	assert.False(t, stored.Matches(Aggregate(0)))
}

func TestAggregateEmptyQuery(t *testing.T) {
	assert.True(t, Qualifier{}.Matches(Aggregate(0)))
	assert.False(t, AllOf(frost).Matches(Aggregate(0)))
}

func TestExactMatching(t *testing.T) {
	t.Run("equal sets match", func(t *testing.T) {
		stored := AllOf(fire | magic).AndAnyOf(elemental)
		assert.True(t, stored.Matches(Exact(stored)))
	})

	t.Run("generalization is rejected", func(t *testing.T) {
		// The universal qualifier matches any Aggregate query but must
		// not match a non-universal Exact query.
		assert.True(t, Qualifier{}.Matches(Aggregate(physical)))
		assert.False(t, Qualifier{}.Matches(Exact(AllOf(physical))))
	})

	t.Run("different all-of is rejected", func(t *testing.T) {
		assert.False(t, AllOf(magic).Matches(Exact(AllOf(physical))))
	})

	t.Run("any-of must be equal too", func(t *testing.T) {
		stored := AllOf(fire).AndAnyOf(elemental)
		assert.False(t, stored.Matches(Exact(AllOf(fire))))
		assert.False(t, AllOf(fire).Matches(Exact(stored)))
	})
}

func TestQueryIsComparable(t *testing.T) {
	a := Aggregate(fire | magic)
	b := Aggregate(fire | magic)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Exact(AllOf(fire|magic)))

	seen := map[Query]int{a: 1}
	assert.Equal(t, 1, seen[b])
}

func TestFlagsHelpers(t *testing.T) {
	assert.True(t, (fire | magic).Contains(fire))
	assert.False(t, fire.Contains(fire|magic))
	assert.True(t, elemental.Intersects(water|sword))
	assert.False(t, elemental.Intersects(sword))
	assert.True(t, Flags(0).IsEmpty())

	q := AllOf(fire).AndAllOf(magic).AndAnyOf(frost)
	assert.Equal(t, fire|magic, q.AllOf)
	assert.Equal(t, frost, q.AnyOf)
	assert.False(t, q.IsEmpty())
	assert.True(t, Qualifier{}.IsEmpty())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	fireFlag, err := r.Register("fire")
	require.NoError(t, err)
	waterFlag, err := r.Register("water")
	require.NoError(t, err)
	assert.NotEqual(t, fireFlag, waterFlag)

	t.Run("register is idempotent", func(t *testing.T) {
		again, err := r.Register("Fire")
		require.NoError(t, err)
		assert.Equal(t, fireFlag, again)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := r.Register("  ")
		assert.ErrorIs(t, err, ErrBlankName)
	})

	t.Run("alias", func(t *testing.T) {
		require.NoError(t, r.Alias("elemental", fireFlag|waterFlag))
		f, ok := r.Lookup("elemental")
		require.True(t, ok)
		assert.Equal(t, fireFlag|waterFlag, f)

		// Same union is accepted, a different one is not.
		require.NoError(t, r.Alias("elemental", fireFlag|waterFlag))
		assert.ErrorIs(t, r.Alias("elemental", fireFlag), ErrNameTaken)
	})

	t.Run("parse", func(t *testing.T) {
		f, err := r.Parse("fire|water")
		require.NoError(t, err)
		assert.Equal(t, fireFlag|waterFlag, f)

		f, err = r.Parse(" fire | elemental ")
		require.NoError(t, err)
		assert.Equal(t, fireFlag|waterFlag, f)

		f, err = r.Parse("")
		require.NoError(t, err)
		assert.Equal(t, Flags(0), f)

		_, err = r.Parse("fire|plasma")
		assert.ErrorIs(t, err, ErrUnknownFlag)
	})

	t.Run("format", func(t *testing.T) {
		assert.Equal(t, "", r.Format(0))
		assert.Equal(t, "fire|water", r.Format(fireFlag|waterFlag))
	})
}

func TestRegistryDomainFull(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 64; i++ {
		_, err := r.Register(string(rune('a'+i%26)) + string(rune('a'+i/26)))
		require.NoError(t, err)
	}
	_, err := r.Register("overflow")
	assert.ErrorIs(t, err, ErrDomainFull)
}
