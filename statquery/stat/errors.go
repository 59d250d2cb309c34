package stat

import (
	"errors"
	"fmt"
)

var (
	ErrBlankName        = errors.New("stat: blank stat name")
	ErrNilFactory       = errors.New("stat: definition has no factory")
	ErrNotRegistered    = errors.New("stat: stat is not registered")
	ErrUnknownValueKind = errors.New("stat: unknown value kind")
	ErrKindConflict     = errors.New("stat: name already registered with another kind")
)

// KindConflictError reports a re-registration under a different value kind.
type KindConflictError struct {
	Stat       string
	Registered string
	Proposed   string
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("stat: %q is registered as %q, cannot redeclare as %q",
		e.Stat, e.Registered, e.Proposed)
}

func (e *KindConflictError) Unwrap() error { return ErrKindConflict }
