package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[Entity]bool)
	for i := 0; i < 100; i++ {
		e := New()
		assert.False(t, e.IsZero())
		assert.False(t, seen[e])
		seen[e] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	e := New()
	back, err := Parse(e.String())
	require.NoError(t, err)
	assert.Equal(t, e, back)

	_, err = Parse("not-an-identity")
	assert.Error(t, err)
}

func TestTextCodec(t *testing.T) {
	e := New()
	text, err := e.MarshalText()
	require.NoError(t, err)

	var back Entity
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, e, back)

	assert.Error(t, back.UnmarshalText([]byte("junk")))
}

func TestZeroValue(t *testing.T) {
	var e Entity
	assert.True(t, e.IsZero())
	assert.False(t, New().IsZero())
}
