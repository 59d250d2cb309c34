package statsheet

import "errors"

var (
	// ErrNoOperation reports a modifier block carrying qualifiers but none of
	// the operation attributes.
	ErrNoOperation = errors.New("statsheet: modifier block has no operation attribute")

	// ErrNoRounding reports a round attribute on a kind whose evaluation
	// never rounds.
	ErrNoRounding = errors.New("statsheet: kind does not round")
)
