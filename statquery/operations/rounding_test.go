package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundingApply(t *testing.T) {
	cases := []struct {
		name string
		mode Rounding
		in   float64
		out  float64
	}{
		{"truncate positive", Truncate, 2.7, 2},
		{"truncate negative", Truncate, -2.7, -2},
		{"floor positive", Floor, 2.7, 2},
		{"floor negative", Floor, -2.3, -3},
		{"ceil positive", Ceil, 2.1, 3},
		{"ceil negative", Ceil, -2.7, -2},
		{"round up", Round, 2.5, 3},
		{"round down", Round, 2.4, 2},
		{"round negative half", Round, -2.5, -3},
		{"truncate signed small positive", TruncateSigned, 0.3, 1},
		{"truncate signed small negative", TruncateSigned, -0.3, -1},
		{"truncate signed zero", TruncateSigned, 0, 0},
		{"truncate signed large", TruncateSigned, 5.9, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.out, c.mode.Apply(c.in))
		})
	}
}

func TestParseRounding(t *testing.T) {
	for _, name := range []string{"truncate", "floor", "ceil", "round", "truncate_signed"} {
		r, err := ParseRounding(name)
		require.NoError(t, err)
		assert.Equal(t, name, r.String())
	}

	_, err := ParseRounding("bankers")
	assert.Error(t, err)
}
