package querier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

var (
	// ErrCycle marks evaluations that transitively required themselves.
	// A cycle is a configuration bug; the whole top-level query aborts.
	ErrCycle = errors.New("querier: dependency cycle detected")

	// ErrNotFound marks queries where no default and no source contributed
	// anything. Callers may treat it as "no effect"; the engine never
	// substitutes a silent zero.
	ErrNotFound = errors.New("querier: stat not found")

	// ErrTypeMismatch re-exports the algebra's sentinel so engine callers
	// match every mismatch with one errors.Is target.
	ErrTypeMismatch = types.ErrTypeMismatch

	// ErrNoRegistry rejects building a querier without a stat registry.
	ErrNoRegistry = errors.New("querier: no stat registry")
)

// CycleError reports the ordered key path of a dependency cycle, from the
// first repeated key back to its recurrence.
type CycleError struct {
	Path []Key
}

func (e *CycleError) Error() string {
	steps := make([]string, len(e.Path))
	for i, k := range e.Path {
		steps[i] = k.String()
	}
	return fmt.Sprintf("querier: dependency cycle detected: %s", strings.Join(steps, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// NotFoundError reports the evaluation key nothing contributed to.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("querier: stat not found: no default and no modifier for %s", e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MismatchError reports an evaluation whose output type disagrees with
// what the caller asserted.
type MismatchError struct {
	Stat stat.Stat
	Got  any
	Want any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("querier: %s evaluates to %T, not %T", e.Stat, e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }
