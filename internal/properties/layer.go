package properties

import (
	"fmt"
	"maps"

	"github.com/magiconair/properties"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Priority orders layers within a Stack.
type Priority int

const (
	PriorityDefaults Priority = 0
	PriorityManifest Priority = 10
	PriorityOverride Priority = 20
)

// Layer is a named, read-only key/value mapping.
type Layer struct {
	name     string
	priority Priority
	values   map[string]string
}

// NewLayer creates a layer holding a copy of values.
func NewLayer(name string, priority Priority, values map[string]string) Layer {
	return Layer{name: name, priority: priority, values: maps.Clone(values)}
}

// Parse reads key=value text into a layer. Later keys override earlier ones
// within the text. ${...} references are kept literally.
func Parse(name string, priority Priority, text string) (Layer, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes([]byte(text))
	if err != nil {
		return Layer{}, fmt.Errorf("parse %s: %v: %w", name, err, pgfleet.ErrInvalidManifest)
	}

	values := make(map[string]string, props.Len())
	for _, key := range props.Keys() {
		if v, ok := props.Get(key); ok {
			values[key] = v
		}
	}
	return Layer{name: name, priority: priority, values: values}, nil
}

func (l Layer) Name() string       { return l.name }
func (l Layer) Priority() Priority { return l.priority }
func (l Layer) Len() int           { return len(l.values) }
func (l Layer) Get(key string) (string, bool) {
	v, ok := l.values[key]
	return v, ok
}
