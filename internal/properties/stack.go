package properties

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Stack merges layers into one mapping. A key resolves to the value of the
// highest-priority layer defining it; ties go to the layer added last.
//
// Add is not safe for concurrent use. Build the stack once per invocation.
type Stack struct {
	layers []Layer
}

// NewStack creates a stack from layers, added in order.
func NewStack(layers ...Layer) *Stack {
	s := &Stack{}
	for _, l := range layers {
		s.Add(l)
	}
	return s
}

// Add registers a layer.
func (s *Stack) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// LayerNames returns the layer names in resolution order, strongest first.
func (s *Stack) LayerNames() []string {
	return lo.Map(s.ordered(), func(l Layer, _ int) string { return l.name })
}

// ordered returns the layers strongest first.
func (s *Stack) ordered() []Layer {
	out := slices.Clone(s.layers)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b Layer) int { return int(b.priority) - int(a.priority) })
	return out
}

// Lookup returns the winning value for key and the name of the layer it came from.
func (s *Stack) Lookup(key string) (value, layer string, ok bool) {
	for _, l := range s.ordered() {
		if v, found := l.values[key]; found {
			return v, l.name, true
		}
	}
	return "", "", false
}

// Get returns the winning value for key.
func (s *Stack) Get(key string) (string, bool) {
	v, _, ok := s.Lookup(key)
	return v, ok
}

// GetString returns the value for key, or def when absent.
func (s *Stack) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// GetList splits the value for key on commas. Items are trimmed and empty
// items dropped; order is preserved.
func (s *Stack) GetList(key string) []string {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	return SplitList(v)
}

// GetBool parses the value for key as a boolean. An absent key is false.
func (s *Stack) GetBool(key string) (bool, error) {
	v, ok := s.Get(key)
	if !ok || strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a boolean: %w", key, v, pgfleet.ErrInvalidManifest)
	}
	return b, nil
}

// Keys returns every key defined by any layer, sorted.
func (s *Stack) Keys() []string {
	var keys []string
	for _, l := range s.layers {
		for k := range l.values {
			keys = append(keys, k)
		}
	}
	keys = lo.Uniq(keys)
	slices.Sort(keys)
	return keys
}

// SubsetKeys returns the sorted direct children of prefix: for prefix
// "pgfleet.db", the key "pgfleet.db.alpha" yields "alpha" while
// "pgfleet.db.alpha.url" yields nothing.
func (s *Stack) SubsetKeys(prefix string) []string {
	prefix = strings.TrimSuffix(prefix, ".") + "."
	return lo.FilterMap(s.Keys(), func(key string, _ int) (string, bool) {
		rest, ok := strings.CutPrefix(key, prefix)
		return rest, ok && rest != "" && !strings.Contains(rest, ".")
	})
}

// SplitList splits a comma-separated list, trimming items and dropping empty ones.
func SplitList(v string) []string {
	return lo.FilterMap(strings.Split(v, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
