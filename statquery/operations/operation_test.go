package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		op   Operation
		kind Kind
	}{
		{Base(10.0), KindBase},
		{Add(4.0), KindAdd},
		{Mul(2.0), KindMul},
		{Min(1.0), KindMin},
		{Max(99.0), KindMax},
		{Or(true), KindOr},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			assert.Equal(t, c.kind, c.op.Kind)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "add", KindAdd.String())
	assert.Equal(t, "base", KindBase.String())
	assert.Equal(t, "or", KindOr.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"base", "add", "mul", "min", "max", "or"} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}

	_, err := ParseKind("xor")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "add(4)", Add(4).String())
	assert.Equal(t, "mul(1.5)", Mul(1.5).String())
}
