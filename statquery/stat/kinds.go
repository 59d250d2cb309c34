package stat

import (
	"sort"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Built-in value kind names, usable anywhere stats are declared by data:
// sheet files, scripts and store rows.
const (
	KindFloat              = "float"
	KindFloatAdditive      = "float_additive"
	KindAdditive           = "additive"
	KindMult               = "mult"
	KindInt                = "int"
	KindIntFloatMul        = "int_float_mul"
	KindIntPercent         = "int_percent"
	KindIntPercentAdditive = "int_percent_additive"
	KindFlags              = "flags"
	KindBool               = "bool"
	KindOnce               = "once"
)

var builtinKinds = map[string]func() types.Value{
	KindFloat:              func() types.Value { return types.NewFloat[float64]() },
	KindFloatAdditive:      func() types.Value { return types.NewFloatAdditive[float64]() },
	KindAdditive:           func() types.Value { return types.NewAdditive[float64]() },
	KindMult:               func() types.Value { return types.NewMult[float64]() },
	KindInt:                func() types.Value { return types.NewInt[int]() },
	KindIntFloatMul:        func() types.Value { return types.NewIntFloatMul[int]() },
	KindIntPercent:         func() types.Value { return types.NewIntPercent[int]() },
	KindIntPercentAdditive: func() types.Value { return types.NewIntPercentAdditive[int]() },
	KindFlags:              func() types.Value { return types.NewFlags[uint64]() },
	KindBool:               func() types.Value { return types.NewBool() },
	KindOnce:               func() types.Value { return types.NewOnce[string]() },
}

// KindDefinition resolves a built-in kind name to a registrable definition.
func KindDefinition(kind string) (Definition, bool) {
	factory, ok := builtinKinds[kind]
	if !ok {
		return Definition{}, false
	}
	return Definition{Kind: kind, New: factory}, true
}

// IntegerOperand reports whether a built-in kind folds op's operand as an
// integer. Decoders use it to pick the target type before coercing wire
// numbers. int_float_mul is the odd one out: everything but its multiplier
// is integer.
func IntegerOperand(kind string, op operations.Kind) bool {
	switch kind {
	case KindInt, KindIntPercent, KindIntPercentAdditive:
		return true
	case KindIntFloatMul:
		return op != operations.KindMul
	}
	return false
}

// Kinds lists the built-in kind names in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(builtinKinds))
	for kind := range builtinKinds {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
