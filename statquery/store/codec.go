package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Codec turns operations into the op and operand column texts and back.
// Operands travel as JSON; decoding resolves the stat's kind through the
// registry to pick the operand type, so a fractional number aimed at an
// integer kind fails the load instead of truncating.
type Codec struct {
	reg    *stat.Registry
	coerce *types.Coercions
}

func NewCodec(reg *stat.Registry) *Codec {
	return &Codec{reg: reg, coerce: types.NewDefaultCoercions()}
}

// EncodeRow renders a row as its column values in table order: id,
// entity, stat, any_of, all_of, op, operand. Flag words map onto signed
// bigint columns bit for bit.
func (c *Codec) EncodeRow(r Row) ([]any, error) {
	opName, operand, err := c.EncodeOp(r.Op)
	if err != nil {
		return nil, err
	}
	return []any{
		r.ID.String(),
		r.Entity.String(),
		r.Stat,
		int64(r.Q.AnyOf),
		int64(r.Q.AllOf),
		opName,
		operand,
	}, nil
}

// DecodeRow assembles a typed row back from its column values.
func (c *Codec) DecodeRow(e entity.Entity, id, statName string, anyOf, allOf int64, opName, operand string) (Row, error) {
	u, err := ulid.Parse(id)
	if err != nil {
		return Row{}, fmt.Errorf("store: row id %q: %w", id, err)
	}
	op, err := c.DecodeOp(statName, opName, operand)
	if err != nil {
		return Row{}, err
	}
	return Row{
		ID:     u,
		Entity: e,
		Stat:   statName,
		Q: qualifier.Qualifier{
			AnyOf: qualifier.Flags(uint64(anyOf)),
			AllOf: qualifier.Flags(uint64(allOf)),
		},
		Op: op,
	}, nil
}

// EncodeOp renders the operation as its two column texts.
func (c *Codec) EncodeOp(op operations.Operation) (kind, operand string, err error) {
	if op.Operand == nil {
		return "", "", fmt.Errorf("store: %s has no operand", op.Kind)
	}
	raw, err := json.Marshal(op.Operand)
	if err != nil {
		return "", "", fmt.Errorf("store: encode %s operand: %w", op.Kind, err)
	}
	return op.Kind.String(), string(raw), nil
}

// DecodeOp rebuilds a typed operation from the op and operand columns of a
// row for the named stat.
func (c *Codec) DecodeOp(statName, opName, operand string) (operations.Operation, error) {
	k, err := operations.ParseKind(opName)
	if err != nil {
		return operations.Operation{}, fmt.Errorf("store: %q: %w", statName, err)
	}
	s, ok := c.reg.Lookup(statName)
	if !ok {
		return operations.Operation{}, fmt.Errorf("store: %w: %q", stat.ErrNotRegistered, statName)
	}
	def, _ := c.reg.Definition(s)
	v, err := c.decodeOperand(def.Kind, k, operand)
	if err != nil {
		return operations.Operation{}, fmt.Errorf("store: %q: %w", statName, err)
	}
	return operations.Operation{Kind: k, Operand: v}, nil
}

// decodeOperand parses the JSON operand into the type the kind folds.
// Numbers stay json.Number until the target is known: flag bits can
// occupy all 64 bits, which float64 would mangle.
func (c *Codec) decodeOperand(kind string, opKind operations.Kind, operand string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(operand))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("operand %q: %w", operand, err)
	}

	switch v := raw.(type) {
	case json.Number:
		switch {
		case kind == stat.KindBool || kind == stat.KindOnce:
			return nil, fmt.Errorf("%w: %s takes no number", types.ErrTypeMismatch, kind)
		case kind == stat.KindFlags:
			bits, err := strconv.ParseUint(v.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s is no flag set", types.ErrTypeMismatch, v)
			}
			return bits, nil
		case stat.IntegerOperand(kind, opKind):
			if i, err := v.Int64(); err == nil {
				return int(i), nil
			}
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s is no number", types.ErrTypeMismatch, v)
			}
			return types.To[int](c.coerce, f)
		default:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s is no number", types.ErrTypeMismatch, v)
			}
			return f, nil
		}
	case string:
		if kind == stat.KindOnce {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s takes no string", types.ErrTypeMismatch, kind)
	case bool:
		if kind == stat.KindBool {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s takes no bool", types.ErrTypeMismatch, kind)
	}
	return nil, fmt.Errorf("%w: operand %q", types.ErrTypeMismatch, operand)
}
