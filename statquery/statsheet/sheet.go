// Package statsheet loads declarative stat sheets written in HCL.
//
// A sheet names its flag domain, declares stats with a value kind plus an
// optional default and bounds, and lists qualifier-tagged modifiers:
//
//	flags "element" {
//	  names = ["fire", "frost", "water"]
//
//	  group "elemental" {
//	    members = ["fire", "frost", "water"]
//	  }
//	}
//
//	stat "strength" {
//	  kind    = "float"
//	  default = 42
//	  min     = 1
//	  max     = 99
//	}
//
//	modifier "strength" {
//	  all_of = ["fire"]
//	  add    = 5
//	}
//
// Loading yields the populated registries, a defaults table and a stat map
// ready to wire into a querier. Operand types are checked while the sheet
// folds, so a mistyped modifier fails the load, not a later query, and all
// problems in a sheet are reported together rather than first-error-only.
package statsheet

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/statmap"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

type sheetFile struct {
	Flags     []*flagsBlock    `hcl:"flags,block"`
	Stats     []*statBlock     `hcl:"stat,block"`
	Modifiers []*modifierBlock `hcl:"modifier,block"`
}

type flagsBlock struct {
	Domain string        `hcl:"domain,label"`
	Names  []string      `hcl:"names"`
	Groups []*groupBlock `hcl:"group,block"`
}

type groupBlock struct {
	Name    string   `hcl:"name,label"`
	Members []string `hcl:"members"`
}

type statBlock struct {
	Name    string    `hcl:"name,label"`
	Kind    string    `hcl:"kind"`
	Default cty.Value `hcl:"default,optional"`
	Min     cty.Value `hcl:"min,optional"`
	Max     cty.Value `hcl:"max,optional"`
	Round   string    `hcl:"round,optional"`
}

type modifierBlock struct {
	Stat  string    `hcl:"stat,label"`
	AnyOf []string  `hcl:"any_of,optional"`
	AllOf []string  `hcl:"all_of,optional"`
	Base  cty.Value `hcl:"base,optional"`
	Add   cty.Value `hcl:"add,optional"`
	Mul   cty.Value `hcl:"mul,optional"`
	Min   cty.Value `hcl:"min,optional"`
	Max   cty.Value `hcl:"max,optional"`
	Or    cty.Value `hcl:"or,optional"`
}

// Modifier is one folded sheet entry as it was declared.
type Modifier struct {
	Stat stat.Stat
	Q    qualifier.Qualifier
	Op   operations.Operation
}

// Sheet is a loaded stat sheet: the registries its declarations populated,
// the defaults table and the folded modifier map.
type Sheet struct {
	Stats    *stat.Registry
	Flags    *qualifier.Registry
	Defaults *statmap.Defaults
	Map      *statmap.StatMap

	domains []renderedDomain
	decls   []renderedStat
	mods    []Modifier
}

// Modifiers lists the folded entries in declaration order.
func (s *Sheet) Modifiers() []Modifier {
	return append([]Modifier(nil), s.mods...)
}

// Loader parses and folds sheet files. One Loader can load several sheets;
// each call builds an independent Sheet.
type Loader struct {
	parser *hclparse.Parser
	coerce *types.Coercions
}

func NewLoader() *Loader {
	return &Loader{
		parser: hclparse.NewParser(),
		coerce: types.NewDefaultCoercions(),
	}
}

// Load parses the given sheet files into a single merged Sheet.
func Load(paths ...string) (*Sheet, error) {
	return NewLoader().LoadFiles(paths...)
}

// LoadFiles parses and folds the given files. Later files see the flags and
// stats declared by earlier ones.
func (l *Loader) LoadFiles(paths ...string) (*Sheet, error) {
	var result *multierror.Error
	files := make([]*sheetFile, 0, len(paths))
	for _, path := range paths {
		f, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			result = multierror.Append(result, fmt.Errorf("parse %s: %w", path, diags))
			continue
		}
		decoded, err := decodeFile(f)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("decode %s: %w", path, err))
			continue
		}
		files = append(files, decoded)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return l.build(files)
}

// ParseBytes folds a single in-memory sheet. The filename labels
// diagnostics only.
func (l *Loader) ParseBytes(filename string, src []byte) (*Sheet, error) {
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	decoded, err := decodeFile(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return l.build([]*sheetFile{decoded})
}

func decodeFile(f *hcl.File) (*sheetFile, error) {
	var out sheetFile
	if diags := gohcl.DecodeBody(f.Body, nil, &out); diags.HasErrors() {
		return nil, diags
	}
	return &out, nil
}

func (l *Loader) build(files []*sheetFile) (*Sheet, error) {
	sh := &Sheet{
		Stats: stat.NewRegistry(),
		Flags: qualifier.NewRegistry(),
	}
	sh.Defaults = statmap.NewDefaults(sh.Stats)
	sh.Map = statmap.New(sh.Stats)

	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	// flags first, then stats, then modifiers, so each stage can resolve
	// names declared by the previous one regardless of file order
	for _, f := range files {
		for _, fb := range f.Flags {
			l.declareFlags(sh, fb, fail)
		}
	}
	for _, f := range files {
		for _, sb := range f.Stats {
			l.declareStat(sh, sb, fail)
		}
	}
	for _, f := range files {
		for _, mb := range f.Modifiers {
			l.applyModifier(sh, mb, fail)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return sh, nil
}

func (l *Loader) declareFlags(sh *Sheet, fb *flagsBlock, fail func(string, ...any)) {
	dom := renderedDomain{name: fb.Domain}
	for _, name := range fb.Names {
		if _, err := sh.Flags.Register(name); err != nil {
			fail("flags %q: %w", fb.Domain, err)
			continue
		}
		dom.names = append(dom.names, strings.ToLower(strings.TrimSpace(name)))
	}
	for _, g := range fb.Groups {
		members, err := l.flagSet(sh, g.Members)
		if err != nil {
			fail("group %q: %w", g.Name, err)
			continue
		}
		if err := sh.Flags.Alias(g.Name, members); err != nil {
			fail("group %q: %w", g.Name, err)
			continue
		}
		dom.groups = append(dom.groups, renderedGroup{name: g.Name, members: members})
	}
	sh.domains = append(sh.domains, dom)
}

func (l *Loader) declareStat(sh *Sheet, sb *statBlock, fail func(string, ...any)) {
	def, ok := stat.KindDefinition(sb.Kind)
	if !ok {
		fail("stat %q: %w: %q", sb.Name, stat.ErrUnknownValueKind, sb.Kind)
		return
	}
	if sb.Round != "" {
		r, err := operations.ParseRounding(sb.Round)
		if err != nil {
			fail("stat %q: %w", sb.Name, err)
			return
		}
		if !setRounding(def.New(), r) {
			fail("stat %q: %w: %q", sb.Name, ErrNoRounding, sb.Kind)
			return
		}
		inner := def.New
		def.New = func() types.Value {
			v := inner()
			setRounding(v, r)
			return v
		}
	}
	s, err := sh.Stats.Register(sb.Name, def)
	if err != nil {
		fail("stat %q: %w", sb.Name, err)
		return
	}

	var attrs []string
	if isSet(sb.Default) || isSet(sb.Min) || isSet(sb.Max) {
		v := def.New()
		seed := func(kind operations.Kind, val cty.Value, label string) {
			operand, err := l.operand(sh, sb.Kind, kind, val)
			if err != nil {
				fail("stat %q: %s: %w", sb.Name, label, err)
				return
			}
			if err := v.Apply(operations.Operation{Kind: kind, Operand: operand}); err != nil {
				fail("stat %q: %s: %w", sb.Name, label, err)
				return
			}
			attrs = append(attrs, label+"="+ctyText(val))
		}
		if isSet(sb.Default) {
			seed(operations.KindBase, sb.Default, "default")
		}
		if isSet(sb.Min) {
			seed(operations.KindMin, sb.Min, "min")
		}
		if isSet(sb.Max) {
			seed(operations.KindMax, sb.Max, "max")
		}
		if err := sh.Defaults.SetValue(s, v); err != nil {
			fail("stat %q: %w", sb.Name, err)
		}
	}
	if sb.Round != "" {
		attrs = append(attrs, "round="+sb.Round)
	}
	sh.decls = append(sh.decls, renderedStat{name: s.Name(), kind: sb.Kind, attrs: attrs})
}

var opAttrs = []struct {
	kind operations.Kind
	get  func(*modifierBlock) cty.Value
}{
	{operations.KindBase, func(b *modifierBlock) cty.Value { return b.Base }},
	{operations.KindAdd, func(b *modifierBlock) cty.Value { return b.Add }},
	{operations.KindMul, func(b *modifierBlock) cty.Value { return b.Mul }},
	{operations.KindMin, func(b *modifierBlock) cty.Value { return b.Min }},
	{operations.KindMax, func(b *modifierBlock) cty.Value { return b.Max }},
	{operations.KindOr, func(b *modifierBlock) cty.Value { return b.Or }},
}

func (l *Loader) applyModifier(sh *Sheet, mb *modifierBlock, fail func(string, ...any)) {
	s, ok := sh.Stats.Lookup(mb.Stat)
	if !ok {
		fail("modifier %q: %w", mb.Stat, stat.ErrNotRegistered)
		return
	}
	def, _ := sh.Stats.Definition(s)

	anyOf, err := l.flagSet(sh, mb.AnyOf)
	if err != nil {
		fail("modifier %q: any_of: %w", mb.Stat, err)
		return
	}
	allOf, err := l.flagSet(sh, mb.AllOf)
	if err != nil {
		fail("modifier %q: all_of: %w", mb.Stat, err)
		return
	}
	q := qualifier.Qualifier{AnyOf: anyOf, AllOf: allOf}

	applied := false
	for _, a := range opAttrs {
		val := a.get(mb)
		if !isSet(val) {
			continue
		}
		operand, err := l.operand(sh, def.Kind, a.kind, val)
		if err != nil {
			fail("modifier %q: %s: %w", mb.Stat, a.kind, err)
			continue
		}
		op := operations.Operation{Kind: a.kind, Operand: operand}
		if err := sh.Map.Modify(s, q, op); err != nil {
			fail("modifier %q: %w", mb.Stat, err)
			continue
		}
		sh.mods = append(sh.mods, Modifier{Stat: s, Q: q, Op: op})
		applied = true
	}
	if !applied {
		fail("%w: %q", ErrNoOperation, mb.Stat)
	}
}

func (l *Loader) flagSet(sh *Sheet, names []string) (qualifier.Flags, error) {
	var out qualifier.Flags
	for _, name := range names {
		f, err := sh.Flags.Parse(name)
		if err != nil {
			return 0, err
		}
		out |= f
	}
	return out, nil
}

func setRounding(v types.Value, r operations.Rounding) bool {
	switch x := v.(type) {
	case *types.IntFloatMul[int]:
		x.Round = r
	case *types.IntPercent[int]:
		x.Round = r
	case *types.IntPercentAdditive[int]:
		x.Round = r
	default:
		return false
	}
	return true
}

func isSet(val cty.Value) bool {
	return val != cty.NilVal && !val.IsNull()
}
