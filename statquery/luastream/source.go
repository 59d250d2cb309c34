// Package luastream runs Lua-scripted modifier sources.
//
// A script defines a global contribute function receiving the queried
// entity id and stat name, and returns a list of modifier tables:
//
//	function contribute(entity, stat)
//	  if stat == "strength" then
//	    return {
//	      { op = "base", value = 10 },
//	      { op = "add", value = 5, all_of = "fire" },
//	    }
//	  end
//	end
//
// Scripts may issue sub-queries through the global eval(entity, stat,
// flags) helper, which runs against the active query context, so script
// results can depend on other stats and still hit the cache and the cycle
// detector. Entities the host wants scriptable are exposed with Bind.
//
// A Source is safe to share between goroutines issuing separate queries,
// but a single query, including the sub-queries its script issues, runs on
// one goroutine.
package luastream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/querier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

var (
	// ErrBadModifier reports a contribute result that is not a list of
	// modifier tables.
	ErrBadModifier = errors.New("luastream: contribute must return modifier tables")

	// ErrNoQuery reports an eval call outside a running query.
	ErrNoQuery = errors.New("luastream: eval called outside a query")
)

var _ querier.ModifierSource = (*Source)(nil)

// Source is a querier.ModifierSource backed by one Lua state.
type Source struct {
	mu     sync.Mutex
	l      *lua.State
	reg    *stat.Registry
	flags  *qualifier.Registry
	coerce *types.Coercions

	// active is the context of the running top-level query. Contribute
	// calls carrying the same context are sub-queries issued by the script
	// and run under the lock that query already holds.
	active  *querier.Context
	evalErr error
}

func New(reg *stat.Registry, flags *qualifier.Registry) *Source {
	s := &Source{
		reg:    reg,
		flags:  flags,
		coerce: types.NewDefaultCoercions(),
	}
	s.l = lua.NewState()
	lua.OpenLibraries(s.l)
	s.l.Register("eval", s.evalFn)
	return s
}

// LoadString runs a script chunk, typically one defining contribute.
func (s *Source) LoadString(script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := lua.DoString(s.l, script); err != nil {
		return fmt.Errorf("luastream: %w", err)
	}
	return nil
}

// LoadFile runs a script file.
func (s *Source) LoadFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := lua.DoFile(s.l, path); err != nil {
		return fmt.Errorf("luastream: %w", err)
	}
	return nil
}

// Bind exposes an entity to scripts as a global holding its id, so a
// script can compare against it or pass it to eval.
func (s *Source) Bind(name string, e entity.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l.PushString(e.String())
	s.l.SetGlobal(name)
}

// Contribute calls the script's contribute function and forwards the
// modifiers it returns. A script without one contributes nothing.
func (s *Source) Contribute(cx *querier.Context, e entity.Entity, st stat.Stat, out querier.Emitter) error {
	if cx != nil && s.active == cx {
		return s.contribute(e, st, out)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = cx
	s.evalErr = nil
	defer func() { s.active = nil }()
	return s.contribute(e, st, out)
}

func (s *Source) contribute(e entity.Entity, st stat.Stat, out querier.Emitter) error {
	l := s.l
	l.Global("contribute")
	if l.TypeOf(-1) != lua.TypeFunction {
		l.Pop(1)
		return nil
	}
	l.PushString(e.String())
	l.PushString(st.Name())
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		if s.evalErr != nil {
			return s.evalErr
		}
		return fmt.Errorf("luastream: contribute: %w", err)
	}

	switch l.TypeOf(-1) {
	case lua.TypeNil:
		l.Pop(1)
		return nil
	case lua.TypeTable:
	default:
		l.Pop(1)
		return ErrBadModifier
	}

	n := l.RawLength(-1)
	for i := 1; i <= n; i++ {
		l.RawGetInt(-1, i)
		if l.TypeOf(-1) != lua.TypeTable {
			l.Pop(2)
			return ErrBadModifier
		}
		q, op, err := s.decodeModifier(st)
		l.Pop(1)
		if err != nil {
			l.Pop(1)
			return err
		}
		if err := out.Op(q, op); err != nil {
			l.Pop(1)
			return err
		}
	}
	l.Pop(1)
	return nil
}

// decodeModifier reads the modifier table at the top of the stack.
func (s *Source) decodeModifier(st stat.Stat) (qualifier.Qualifier, operations.Operation, error) {
	var q qualifier.Qualifier
	var op operations.Operation

	name, ok := s.stringField("op")
	if !ok {
		return q, op, fmt.Errorf("%w: missing op", ErrBadModifier)
	}
	kind, err := operations.ParseKind(name)
	if err != nil {
		return q, op, err
	}

	if expr, ok := s.stringField("any_of"); ok {
		f, err := s.flags.Parse(expr)
		if err != nil {
			return q, op, err
		}
		q.AnyOf = f
	}
	if expr, ok := s.stringField("all_of"); ok {
		f, err := s.flags.Parse(expr)
		if err != nil {
			return q, op, err
		}
		q.AllOf = f
	}

	operand, err := s.operandField(st, kind)
	if err != nil {
		return q, op, err
	}
	return q, operations.Operation{Kind: kind, Operand: operand}, nil
}

func (s *Source) stringField(key string) (string, bool) {
	l := s.l
	l.Field(-1, key)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeString {
		return "", false
	}
	v, _ := l.ToString(-1)
	return v, true
}

// operandField converts the table's value field into the operand type the
// stat's kind expects for the operation.
func (s *Source) operandField(st stat.Stat, opKind operations.Kind) (any, error) {
	def, ok := s.reg.Definition(st)
	if !ok {
		return nil, stat.ErrNotRegistered
	}

	l := s.l
	l.Field(-1, "value")
	defer l.Pop(1)

	switch l.TypeOf(-1) {
	case lua.TypeNumber:
		f, _ := l.ToNumber(-1)
		switch def.Kind {
		case stat.KindFlags:
			return types.To[uint64](s.coerce, f)
		case stat.KindBool, stat.KindOnce:
			return nil, fmt.Errorf("%w: %s takes no number", types.ErrTypeMismatch, def.Kind)
		}
		if stat.IntegerOperand(def.Kind, opKind) {
			return types.To[int](s.coerce, f)
		}
		return f, nil
	case lua.TypeString:
		v, _ := l.ToString(-1)
		switch def.Kind {
		case stat.KindOnce:
			return v, nil
		case stat.KindFlags:
			f, err := s.flags.Parse(v)
			if err != nil {
				return nil, err
			}
			return uint64(f), nil
		}
		return nil, fmt.Errorf("%w: %s takes no string", types.ErrTypeMismatch, def.Kind)
	case lua.TypeBoolean:
		if def.Kind != stat.KindBool {
			return nil, fmt.Errorf("%w: %s takes no bool", types.ErrTypeMismatch, def.Kind)
		}
		return l.ToBoolean(-1), nil
	}
	return nil, fmt.Errorf("%w: missing value", ErrBadModifier)
}

// evalFn is the scripts' eval(entity, stat, flags) helper. It runs a
// sub-query through the active context; failures carry the Go error out
// through the surrounding protected call.
func (s *Source) evalFn(l *lua.State) int {
	ent := lua.CheckString(l, 1)
	statName := lua.CheckString(l, 2)
	expr := lua.OptString(l, 3, "")

	if s.active == nil {
		return s.fail(l, ErrNoQuery)
	}
	e, err := entity.Parse(ent)
	if err != nil {
		return s.fail(l, err)
	}
	st, ok := s.reg.Lookup(statName)
	if !ok {
		return s.fail(l, fmt.Errorf("%w: %q", stat.ErrNotRegistered, statName))
	}
	flags, err := s.flags.Parse(expr)
	if err != nil {
		return s.fail(l, err)
	}

	out, err := s.active.Eval(e, qualifier.Aggregate(flags), st)
	if err != nil {
		return s.fail(l, err)
	}

	switch v := out.(type) {
	case float64:
		l.PushNumber(v)
	case int:
		l.PushNumber(float64(v))
	case uint64:
		l.PushNumber(float64(v))
	case bool:
		l.PushBoolean(v)
	case string:
		l.PushString(v)
	case types.Once[string]:
		if some, ok := v.Value().Get(); ok {
			l.PushString(some)
		} else {
			l.PushNil()
		}
	default:
		return s.fail(l, fmt.Errorf("%w: cannot pass %T to a script", types.ErrTypeMismatch, out))
	}
	return 1
}

func (s *Source) fail(l *lua.State, err error) int {
	s.evalErr = err
	lua.Errorf(l, "%s", err.Error())
	return 0
}
