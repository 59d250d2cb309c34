package statmap

import (
	"github.com/krew-solutions/stat-query-go/statquery/operations"
	"github.com/krew-solutions/stat-query-go/statquery/option"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/types"
)

// Defaults holds the unqualified base accumulator each query of a stat is
// seeded from before any source contributes. Stats without a default start
// from the kind's fold identity.
type Defaults struct {
	reg  *stat.Registry
	base map[stat.Stat]types.Value
}

func NewDefaults(reg *stat.Registry) *Defaults {
	return &Defaults{
		reg:  reg,
		base: make(map[stat.Stat]types.Value),
	}
}

// Set seeds the default for a stat from a base operand.
func (d *Defaults) Set(s stat.Stat, base any) error {
	v, err := d.reg.New(s)
	if err != nil {
		return err
	}
	if err := v.Apply(operations.Base(base)); err != nil {
		return err
	}
	d.base[s] = v
	return nil
}

// SetValue seeds the default from a pre-folded accumulator of the stat's
// kind.
func (d *Defaults) SetValue(s stat.Stat, v types.Value) error {
	scratch, err := d.reg.New(s)
	if err != nil {
		return err
	}
	if err := scratch.Join(v); err != nil {
		return err
	}
	d.base[s] = v
	return nil
}

// Patch folds op into the stat's default, starting from the kind's fold
// identity when none was set. Tightening the clamp bounds of an existing
// default is the common use.
func (d *Defaults) Patch(s stat.Stat, op operations.Operation) error {
	v, ok := d.base[s]
	if !ok {
		fresh, err := d.reg.New(s)
		if err != nil {
			return err
		}
		v = fresh
	}
	if err := v.Apply(op); err != nil {
		return err
	}
	d.base[s] = v
	return nil
}

// Find returns a copy of the stat's default accumulator.
func (d *Defaults) Find(s stat.Stat) option.Option[types.Value] {
	v, ok := d.base[s]
	if !ok {
		return option.None[types.Value]()
	}
	return option.Some(v.Clone())
}

// Remove drops the default for a stat.
func (d *Defaults) Remove(s stat.Stat) bool {
	_, ok := d.base[s]
	delete(d.base, s)
	return ok
}
