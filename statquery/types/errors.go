package types

import (
	"errors"
	"fmt"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
)

// ErrTypeMismatch reports an operation, operand or join partner that does
// not fit the receiving value kind. It indicates a configuration bug and is
// surfaced where modifiers are registered whenever the call site folds
// eagerly.
var ErrTypeMismatch = errors.New("types: operation does not match value kind")

// MismatchError carries the offending operation alongside the value kind
// that rejected it.
type MismatchError struct {
	ValueKind string
	Op        operations.Operation
	Reason    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("types: %s on %s: %s", e.Op, e.ValueKind, e.Reason)
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }

// JoinError reports a Join with a different concrete kind.
type JoinError struct {
	Dst string
	Src string
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("types: cannot join %s into %s", e.Src, e.Dst)
}

func (e *JoinError) Unwrap() error { return ErrTypeMismatch }

func unsupportedKind(v Value, op operations.Operation) error {
	return &MismatchError{ValueKind: fmt.Sprintf("%T", v), Op: op, Reason: "unsupported operation kind"}
}

func wrongOperand(v Value, op operations.Operation) error {
	return &MismatchError{
		ValueKind: fmt.Sprintf("%T", v),
		Op:        op,
		Reason:    fmt.Sprintf("wrong operand type %T", op.Operand),
	}
}

func cannotJoin(dst, src Value) error {
	return &JoinError{Dst: fmt.Sprintf("%T", dst), Src: fmt.Sprintf("%T", src)}
}
