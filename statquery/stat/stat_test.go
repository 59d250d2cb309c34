package stat

import (
	"testing"

	"github.com/icrowley/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	s, err := reg.RegisterKind("attack_power", KindFloat)
	require.NoError(t, err)
	assert.Equal(t, "attack_power", s.Name())

	t.Run("same kind is idempotent", func(t *testing.T) {
		again, err := reg.RegisterKind("attack_power", KindFloat)
		require.NoError(t, err)
		assert.Equal(t, s, again)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("different kind conflicts", func(t *testing.T) {
		_, err := reg.RegisterKind("attack_power", KindInt)
		assert.ErrorIs(t, err, ErrKindConflict)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := reg.RegisterKind("  ", KindFloat)
		assert.ErrorIs(t, err, ErrBlankName)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := reg.RegisterKind("mystery", "quaternion")
		assert.ErrorIs(t, err, ErrUnknownValueKind)
	})

	t.Run("nil factory", func(t *testing.T) {
		_, err := reg.Register("broken", Definition{Kind: "custom"})
		assert.ErrorIs(t, err, ErrNilFactory)
	})
}

func TestRegistryLookupRoundTrip(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 20; i++ {
		name := fake.CharactersN(12)
		s, err := reg.RegisterKind(name, KindInt)
		require.NoError(t, err)

		found, ok := reg.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, s, found)
	}

	_, ok := reg.Lookup("never_registered")
	assert.False(t, ok)
}

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry()
	s, err := reg.RegisterKind("health", KindInt)
	require.NoError(t, err)

	v, err := reg.New(s)
	require.NoError(t, err)
	_, ok := v.(*types.Int[int])
	assert.True(t, ok)

	t.Run("fresh accumulators are independent", func(t *testing.T) {
		other, err := reg.New(s)
		require.NoError(t, err)
		require.NoError(t, other.Apply(operations.Add(5)))
		assert.Equal(t, 0, v.(*types.Int[int]).Total())
	})

	t.Run("unregistered stat", func(t *testing.T) {
		_, err := reg.New(Stat{})
		assert.ErrorIs(t, err, ErrNotRegistered)
	})
}

func TestRegistryCheck(t *testing.T) {
	reg := NewRegistry()
	health, err := reg.RegisterKind("health", KindInt)
	require.NoError(t, err)

	assert.NoError(t, reg.Check(health, operations.Add(5)))
	assert.ErrorIs(t, reg.Check(health, operations.Add(5.0)), types.ErrTypeMismatch)
	assert.ErrorIs(t, reg.Check(health, operations.Or(1)), types.ErrTypeMismatch)
}

func TestRegistryStatsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"mana", "armor", "speed"} {
		_, err := reg.RegisterKind(name, KindFloat)
		require.NoError(t, err)
	}

	stats := reg.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, "armor", stats[0].Name())
	assert.Equal(t, "mana", stats[1].Name())
	assert.Equal(t, "speed", stats[2].Name())
}

func TestStatTextCodec(t *testing.T) {
	reg := NewRegistry()
	s, err := reg.RegisterKind("move_speed", KindFloat)
	require.NoError(t, err)

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "move_speed", string(text))

	var back Stat
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, s, back)
}

func TestKindDefinitionCoversAllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		def, ok := KindDefinition(kind)
		require.True(t, ok, kind)
		assert.Equal(t, kind, def.Kind)
		assert.NotNil(t, def.New())
	}
}
