package statsheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
)

type renderedDomain struct {
	name   string
	names  []string
	groups []renderedGroup
}

type renderedGroup struct {
	name    string
	members qualifier.Flags
}

type renderedStat struct {
	name  string
	kind  string
	attrs []string
}

// Render dumps the sheet in a canonical plain-text form: flag domains in
// declaration order, stats by name, modifiers by stat, qualifier and
// operation. Two sheets that fold to the same content render identically,
// which is what the lint and golden tests compare.
func (s *Sheet) Render() string {
	var b strings.Builder

	for _, d := range s.domains {
		fmt.Fprintf(&b, "flags %s: %s\n", d.name, strings.Join(d.names, "|"))
		for _, g := range d.groups {
			fmt.Fprintf(&b, "group %s: %s\n", g.name, s.Flags.Format(g.members))
		}
	}

	decls := append([]renderedStat(nil), s.decls...)
	sort.Slice(decls, func(i, j int) bool { return decls[i].name < decls[j].name })
	for _, d := range decls {
		fmt.Fprintf(&b, "stat %s kind=%s", d.name, d.kind)
		for _, a := range d.attrs {
			b.WriteByte(' ')
			b.WriteString(a)
		}
		b.WriteByte('\n')
	}

	mods := s.Modifiers()
	sort.SliceStable(mods, func(i, j int) bool {
		a, c := mods[i], mods[j]
		if a.Stat.Name() != c.Stat.Name() {
			return a.Stat.Name() < c.Stat.Name()
		}
		if a.Q.AllOf != c.Q.AllOf {
			return a.Q.AllOf < c.Q.AllOf
		}
		if a.Q.AnyOf != c.Q.AnyOf {
			return a.Q.AnyOf < c.Q.AnyOf
		}
		return a.Op.String() < c.Op.String()
	})
	for _, m := range mods {
		fmt.Fprintf(&b, "mod %s", m.Stat)
		if !m.Q.AnyOf.IsEmpty() {
			fmt.Fprintf(&b, " any_of(%s)", s.Flags.Format(m.Q.AnyOf))
		}
		if !m.Q.AllOf.IsEmpty() {
			fmt.Fprintf(&b, " all_of(%s)", s.Flags.Format(m.Q.AllOf))
		}
		fmt.Fprintf(&b, " %s\n", m.Op)
	}

	return b.String()
}

func ctyText(val cty.Value) string {
	t := val.Type()
	switch {
	case t == cty.String:
		return fmt.Sprintf("%q", val.AsString())
	case t == cty.Number:
		return val.AsBigFloat().Text('g', -1)
	case t == cty.Bool:
		if val.True() {
			return "true"
		}
		return "false"
	case t.IsTupleType() || t.IsListType():
		var parts []string
		for it := val.ElementIterator(); it.Next(); {
			_, el := it.Element()
			parts = append(parts, ctyText(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return val.GoString()
}
