package option

import "fmt"

// Option holds either a value (Some) or nothing (None).
type Option[T any] struct {
	val   T
	valid bool
}

// Some wraps a value.
func Some[T any](val T) Option[T] {
	return Option[T]{val: val, valid: true}
}

// None returns the empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the Option holds a value.
func (o Option[T]) IsSome() bool {
	return o.valid
}

// IsNone reports whether the Option is empty.
func (o Option[T]) IsNone() bool {
	return !o.valid
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.val, o.valid
}

// Unwrap returns the value.
// Panics if the Option is None.
func (o Option[T]) Unwrap() T {
	if !o.valid {
		panic("called Unwrap on a None Option")
	}
	return o.val
}

// UnwrapOr returns the value or the provided default.
func (o Option[T]) UnwrapOr(def T) T {
	if o.valid {
		return o.val
	}
	return def
}

// UnwrapOrElse returns the value or computes it from the closure.
func (o Option[T]) UnwrapOrElse(f func() T) T {
	if o.valid {
		return o.val
	}
	return f()
}

// Or returns the Option if it holds a value, otherwise optb.
func (o Option[T]) Or(optb Option[T]) Option[T] {
	if o.valid {
		return o
	}
	return optb
}

// Map applies f to the value of a Some, or returns None.
func Map[T any, U any](o Option[T], f func(T) U) Option[U] {
	if o.valid {
		return Some(f(o.val))
	}
	return None[U]()
}

// String implements fmt.Stringer.
func (o Option[T]) String() string {
	if o.valid {
		return fmt.Sprintf("Some(%v)", o.val)
	}
	return "None"
}
