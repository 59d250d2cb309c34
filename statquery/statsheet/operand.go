package statsheet

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// operand converts an HCL attribute value into the Go operand the stat's
// value kind expects for the given operation. Numbers pass through the
// coercion table, so a fractional literal aimed at an integer kind is
// rejected here instead of truncating silently.
func (l *Loader) operand(sh *Sheet, kind string, op operations.Kind, val cty.Value) (any, error) {
	switch kind {
	case stat.KindBool:
		if val.Type() != cty.Bool {
			return nil, fmt.Errorf("%w: want bool, have %s", types.ErrTypeMismatch, val.Type().FriendlyName())
		}
		return val.True(), nil
	case stat.KindOnce:
		if val.Type() != cty.String {
			return nil, fmt.Errorf("%w: want string, have %s", types.ErrTypeMismatch, val.Type().FriendlyName())
		}
		return val.AsString(), nil
	case stat.KindFlags:
		return l.flagOperand(sh, val)
	}

	if val.Type() != cty.Number {
		return nil, fmt.Errorf("%w: want number, have %s", types.ErrTypeMismatch, val.Type().FriendlyName())
	}
	f, _ := val.AsBigFloat().Float64()
	if stat.IntegerOperand(kind, op) {
		return types.To[int](l.coerce, f)
	}
	return f, nil
}

// flagOperand accepts a list of flag names, a single "fire|magic" string or
// a raw number.
func (l *Loader) flagOperand(sh *Sheet, val cty.Value) (any, error) {
	t := val.Type()
	switch {
	case t.IsTupleType() || t.IsListType():
		var out qualifier.Flags
		for it := val.ElementIterator(); it.Next(); {
			_, el := it.Element()
			if el.Type() != cty.String {
				return nil, fmt.Errorf("%w: flag lists hold names, have %s", types.ErrTypeMismatch, el.Type().FriendlyName())
			}
			f, err := sh.Flags.Parse(el.AsString())
			if err != nil {
				return nil, err
			}
			out |= f
		}
		return uint64(out), nil
	case t == cty.String:
		f, err := sh.Flags.Parse(val.AsString())
		if err != nil {
			return nil, err
		}
		return uint64(f), nil
	case t == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return types.To[uint64](l.coerce, f)
	}
	return nil, fmt.Errorf("%w: want flag names or a number, have %s", types.ErrTypeMismatch, t.FriendlyName())
}
