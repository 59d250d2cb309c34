package types

import (
	"fmt"
	"math"
	"reflect"
)

// ConvertFn narrows or widens a decoded wire value into an operand type.
type ConvertFn func(v any) (any, error)

type convKey struct {
	from reflect.Type
	to   reflect.Type
}

// Coercions maps wire types to operand types. Sheet files, scripts and
// store rows all decode numbers as float64 or int64; the registry turns
// those into whatever operand type the stat kind folds.
type Coercions struct {
	funcs map[convKey]ConvertFn
}

func NewCoercions() *Coercions {
	return &Coercions{funcs: make(map[convKey]ConvertFn)}
}

func RegisterCoercion[From, To any](c *Coercions, fn func(From) (To, error)) {
	var zeroF From
	var zeroT To
	key := convKey{
		from: reflect.TypeOf(zeroF),
		to:   reflect.TypeOf(zeroT),
	}
	c.funcs[key] = func(v any) (any, error) {
		return fn(v.(From))
	}
}

// Convert coerces v to the target type. Values already of the target type
// pass through untouched.
func (c *Coercions) Convert(v any, to reflect.Type) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot coerce nil to %s", ErrTypeMismatch, to)
	}
	from := reflect.TypeOf(v)
	if from == to {
		return v, nil
	}
	fn, ok := c.funcs[convKey{from: from, to: to}]
	if !ok {
		return nil, fmt.Errorf("%w: no coercion from %s to %s", ErrTypeMismatch, from, to)
	}
	return fn(v)
}

// To converts v to T through the registry.
func To[T any](c *Coercions, v any) (T, error) {
	var zero T
	out, err := c.Convert(v, reflect.TypeOf(zero))
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func registerIntegerTarget[T Integer](c *Coercions) {
	RegisterCoercion(c, func(x float64) (T, error) {
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not a whole number", ErrTypeMismatch, x)
		}
		return T(x), nil
	})
	RegisterCoercion(c, func(x int64) (T, error) { return T(x), nil })
	RegisterCoercion(c, func(x int) (T, error) { return T(x), nil })
	RegisterCoercion(c, func(x uint64) (T, error) { return T(x), nil })
}

func registerFloatingTarget[T Floating](c *Coercions) {
	RegisterCoercion(c, func(x float64) (T, error) { return T(x), nil })
	RegisterCoercion(c, func(x int64) (T, error) { return T(x), nil })
	RegisterCoercion(c, func(x int) (T, error) { return T(x), nil })
	RegisterCoercion(c, func(x uint64) (T, error) { return T(x), nil })
}

func registerBitsTarget[T Bits](c *Coercions) {
	RegisterCoercion(c, func(x float64) (T, error) {
		if x != math.Trunc(x) || x < 0 {
			return 0, fmt.Errorf("%w: %v is not an unsigned whole number", ErrTypeMismatch, x)
		}
		return T(x), nil
	})
	RegisterCoercion(c, func(x int64) (T, error) {
		if x < 0 {
			return 0, fmt.Errorf("%w: %v is negative", ErrTypeMismatch, x)
		}
		return T(x), nil
	})
	RegisterCoercion(c, func(x int) (T, error) {
		if x < 0 {
			return 0, fmt.Errorf("%w: %v is negative", ErrTypeMismatch, x)
		}
		return T(x), nil
	})
	RegisterCoercion(c, func(x uint64) (T, error) { return T(x), nil })
}

// NewDefaultCoercions covers the operand types the built-in stat kinds
// fold: every numeric wire representation reaches int, int64, int32,
// float64, float32, uint64 and uint32 targets.
func NewDefaultCoercions() *Coercions {
	c := NewCoercions()

	registerIntegerTarget[int](c)
	registerIntegerTarget[int64](c)
	registerIntegerTarget[int32](c)

	registerFloatingTarget[float64](c)
	registerFloatingTarget[float32](c)

	registerBitsTarget[uint64](c)
	registerBitsTarget[uint32](c)

	return c
}
