package qualifier

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Registry assigns names to flag bits so sheets, scripts and stores can
// refer to them symbolically. It is an explicit configuration object built
// at setup time; reads after setup are safe from multiple goroutines.
type Registry struct {
	byName map[string]Flags
	names  [64]string
	next   uint
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Flags)}
}

// Register assigns the next free bit to name. Registering the same name
// twice returns the original bit.
func (r *Registry) Register(name string) (Flags, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, ErrBlankName
	}
	if f, ok := r.byName[name]; ok {
		if bits.OnesCount64(uint64(f)) != 1 {
			return 0, fmt.Errorf("%w: %q is a group", ErrNameTaken, name)
		}
		return f, nil
	}
	if r.next >= 64 {
		return 0, ErrDomainFull
	}
	f := Flags(1) << r.next
	r.names[r.next] = name
	r.next++
	r.byName[name] = f
	return f, nil
}

// Alias names a union of already registered bits, such as an "elemental"
// group used as an any-of qualifier.
func (r *Registry) Alias(name string, members Flags) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ErrBlankName
	}
	if existing, ok := r.byName[name]; ok {
		if existing == members {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	r.byName[name] = members
	return nil
}

// Lookup resolves a single name.
func (r *Registry) Lookup(name string) (Flags, bool) {
	f, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Parse resolves a "fire|magic" style expression into a flag set. The empty
// string parses to the empty set.
func (r *Registry) Parse(expr string) (Flags, error) {
	var out Flags
	if strings.TrimSpace(expr) == "" {
		return 0, nil
	}
	for _, part := range strings.Split(expr, "|") {
		f, ok := r.Lookup(part)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, strings.TrimSpace(part))
		}
		out |= f
	}
	return out, nil
}

// Format renders a flag set back to a "fire|magic" expression using the
// registered bit names. Unnamed bits render in hex.
func (r *Registry) Format(f Flags) string {
	if f == 0 {
		return ""
	}
	var parts []string
	for i := uint(0); i < 64; i++ {
		bit := Flags(1) << i
		if f&bit == 0 {
			continue
		}
		if i < r.next && r.names[i] != "" {
			parts = append(parts, r.names[i])
		} else {
			parts = append(parts, fmt.Sprintf("0x%x", uint64(bit)))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
