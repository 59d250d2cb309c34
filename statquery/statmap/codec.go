package statmap

import (
	"encoding/json"
	"fmt"

	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
)

type wireEntry struct {
	Stat  string          `json:"stat"`
	AnyOf qualifier.Flags `json:"any_of,omitempty"`
	AllOf qualifier.Flags `json:"all_of,omitempty"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the map as a flat entry list ordered by stat name
// and qualifier, so equal maps encode to equal bytes.
func (m *StatMap) MarshalJSON() ([]byte, error) {
	out := make([]wireEntry, 0, m.Len())
	for _, s := range m.Stats() {
		for _, e := range m.entries[s] {
			raw, err := json.Marshal(e.v)
			if err != nil {
				return nil, err
			}
			out = append(out, wireEntry{
				Stat:  s.Name(),
				AnyOf: e.q.AnyOf,
				AllOf: e.q.AllOf,
				Value: raw,
			})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an entry list against the map's registry. The map
// is replaced only when the whole payload decodes, and every stat in the
// payload must be registered.
func (m *StatMap) UnmarshalJSON(data []byte) error {
	var wire []wireEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	decoded := New(m.reg)
	for _, w := range wire {
		s, ok := m.reg.Lookup(w.Stat)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStat, w.Stat)
		}
		v, err := m.reg.New(s)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(w.Value, v); err != nil {
			return fmt.Errorf("statmap: decode %q: %w", w.Stat, err)
		}
		q := qualifier.Qualifier{AnyOf: w.AnyOf, AllOf: w.AllOf}
		if err := decoded.Insert(s, q, v); err != nil {
			return err
		}
	}

	m.entries = decoded.entries
	return nil
}
