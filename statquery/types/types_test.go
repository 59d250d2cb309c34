package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/option"
)

func mustApply(t *testing.T, v Value, ops ...operations.Operation) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, v.Apply(op))
	}
}

func TestFloatEval(t *testing.T) {
	t.Run("formula", func(t *testing.T) {
		v := NewFloat[float64]()
		mustApply(t, v,
			operations.Base(42.0),
			operations.Add(4.0),
			operations.Add(7.0),
			operations.Mul(2.0),
		)
		assert.Equal(t, 106.0, v.Total())
	})

	t.Run("upper bound caps", func(t *testing.T) {
		v := NewFloat[float64]()
		mustApply(t, v,
			operations.Base(42.0),
			operations.Add(4.0),
			operations.Add(7.0),
			operations.Mul(2.0),
			operations.Min(1.0),
			operations.Max(99.0),
		)
		assert.Equal(t, 99.0, v.Total())
	})

	t.Run("lower bound wins a contradiction", func(t *testing.T) {
		v := NewFloat[float64]()
		mustApply(t, v,
			operations.Base(7.0),
			operations.Min(10.0),
			operations.Max(5.0),
		)
		assert.Equal(t, 10.0, v.Total())
	})

	t.Run("tightest bounds survive", func(t *testing.T) {
		v := NewFloat[float64]()
		mustApply(t, v,
			operations.Base(100.0),
			operations.Max(80.0),
			operations.Max(60.0),
			operations.Max(90.0),
		)
		assert.Equal(t, 60.0, v.Total())
	})

	t.Run("base seeds over prior state", func(t *testing.T) {
		v := NewFloat[float64]()
		mustApply(t, v, operations.Add(5.0), operations.Base(42.0))
		assert.Equal(t, 42.0, v.Total())
	})
}

func TestFloatAdditiveEval(t *testing.T) {
	v := NewFloatAdditive[float64]()
	mustApply(t, v,
		operations.Base(10.0),
		operations.Mul(0.5),
		operations.Mul(0.25),
	)
	assert.Equal(t, 17.5, v.Total())
}

func TestAdditiveEval(t *testing.T) {
	v := NewAdditive[int]()
	mustApply(t, v, operations.Add(3), operations.Add(4), operations.Max(5))
	assert.Equal(t, 5, v.Total())

	err := v.Apply(operations.Mul(2))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestMultEval(t *testing.T) {
	v := NewMult[float64]()
	mustApply(t, v, operations.Mul(2.0), operations.Mul(0.25))
	assert.Equal(t, 0.5, v.Total())

	err := v.Apply(operations.Add(1.0))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestIntEval(t *testing.T) {
	v := NewInt[int]()
	mustApply(t, v, operations.Base(7), operations.Add(3), operations.Mul(2))
	assert.Equal(t, 20, v.Total())
}

func TestIntFloatMulEval(t *testing.T) {
	t.Run("truncates by default", func(t *testing.T) {
		v := NewIntFloatMul[int]()
		mustApply(t, v, operations.Base(5), operations.Mul(1.5))
		assert.Equal(t, 7, v.Total())
	})

	t.Run("rounding survives a base reseed", func(t *testing.T) {
		v := NewIntFloatMul[int]()
		v.Round = operations.Ceil
		mustApply(t, v, operations.Base(5), operations.Mul(1.5))
		assert.Equal(t, 8, v.Total())
	})

	t.Run("mul takes float64", func(t *testing.T) {
		v := NewIntFloatMul[int]()
		err := v.Apply(operations.Mul(2))
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestIntPercentEval(t *testing.T) {
	v := NewIntPercent[int]()
	mustApply(t, v, operations.Base(40), operations.Mul(150), operations.Mul(50))
	assert.Equal(t, 30, v.Total())
}

func TestIntPercentAdditiveEval(t *testing.T) {
	v := NewIntPercentAdditive[int]()
	mustApply(t, v, operations.Base(40), operations.Mul(25), operations.Mul(25))
	assert.Equal(t, 60, v.Total())

	t.Run("join discounts the shared scale", func(t *testing.T) {
		a := NewIntPercentAdditive[int]()
		mustApply(t, a, operations.Base(40), operations.Mul(25))
		b := NewIntPercentAdditive[int]()
		mustApply(t, b, operations.Mul(10))
		require.NoError(t, a.Join(b))
		assert.Equal(t, 54, a.Total())
	})
}

func TestFlagsEval(t *testing.T) {
	v := NewFlags[uint64]()
	mustApply(t, v, operations.Or(uint64(0b0001)), operations.Or(uint64(0b0100)))
	assert.Equal(t, uint64(0b0101), v.Total())

	err := v.Apply(operations.Add(uint64(1)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBoolEval(t *testing.T) {
	v := NewBool()
	assert.False(t, v.Total())
	mustApply(t, v, operations.Or(false), operations.Or(true))
	assert.True(t, v.Total())
}

func TestOnce(t *testing.T) {
	t.Run("single contribution is found", func(t *testing.T) {
		v := NewOnce[string]()
		assert.Equal(t, NotFound, v.State)
		mustApply(t, v, operations.Or("sword"))
		assert.Equal(t, Found, v.State)
		assert.Equal(t, option.Some("sword"), v.Value())
	})

	t.Run("second contribution conflicts even when equal", func(t *testing.T) {
		v := NewOnce[string]()
		mustApply(t, v, operations.Or("sword"), operations.Or("sword"))
		assert.Equal(t, FoundConflicting, v.State)
		assert.True(t, v.Value().IsNone())
	})

	t.Run("join state matrix", func(t *testing.T) {
		tests := []struct {
			name string
			dst  FindState
			src  FindState
			want FindState
		}{
			{"empty absorbs empty", NotFound, NotFound, NotFound},
			{"empty absorbs found", NotFound, Found, Found},
			{"found keeps over empty", Found, NotFound, Found},
			{"found twice conflicts", Found, Found, FoundConflicting},
			{"conflict is sticky", FoundConflicting, NotFound, FoundConflicting},
			{"empty absorbs conflict", NotFound, FoundConflicting, FoundConflicting},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dst := &Once[string]{State: tt.dst, V: "a"}
				src := &Once[string]{State: tt.src, V: "b"}
				require.NoError(t, dst.Join(src))
				assert.Equal(t, tt.want, dst.State)
			})
		}
	})
}

func TestApplyRejectsWrongOperand(t *testing.T) {
	v := NewFloat[float64]()
	err := v.Apply(operations.Add(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Contains(t, mismatch.Error(), "wrong operand type")
}

func TestApplyRejectsUnsupportedKind(t *testing.T) {
	v := NewFloat[float64]()
	err := v.Apply(operations.Or(1.0))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestJoinRejectsForeignKind(t *testing.T) {
	f := NewFloat[float64]()
	i := NewInt[int]()
	err := f.Join(i)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var join *JoinError
	require.True(t, errors.As(err, &join))
}

func TestCloneIsIndependent(t *testing.T) {
	v := NewFloat[float64]()
	mustApply(t, v, operations.Base(10.0))

	c := v.Clone()
	mustApply(t, c, operations.Add(5.0))

	assert.Equal(t, 10.0, v.Total())
	assert.Equal(t, 15.0, c.(*Float[float64]).Total())
}

func TestEvalAs(t *testing.T) {
	v := NewFloat[float64]()
	mustApply(t, v, operations.Base(8.0))

	out, err := EvalAs[float64](v)
	require.NoError(t, err)
	assert.Equal(t, 8.0, out)

	_, err = EvalAs[int](v)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
