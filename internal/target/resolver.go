// Package target resolves per-target connection settings and expands
// target-selection expressions against the targets declared in the manifest.
package target

import (
	"strings"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Resolver builds TargetConfig values from the configuration stack. It
// holds no state besides the stack, so resolving twice yields equal values.
type Resolver struct {
	stack *properties.Stack
}

// NewResolver creates a resolver over stack.
func NewResolver(stack *properties.Stack) *Resolver {
	return &Resolver{stack: stack}
}

// first returns the value of the first present key.
func (r *Resolver) first(keys ...string) string {
	for _, key := range keys {
		if v, ok := r.stack.Get(key); ok {
			return v
		}
	}
	return ""
}

// Resolve returns the schema-owner settings of target. Each field comes from
// pgfleet.db.<target>.<field>, falling back to pgfleet.default.<field>. Without
// an explicit URL the base template is formatted with the target name.
func (r *Resolver) Resolve(target string) pgfleet.TargetConfig {
	return pgfleet.TargetConfig{
		Driver:     r.first(manifest.TargetFieldKey(target, manifest.FieldDriver), manifest.KeyDriver),
		URL:        r.URL(target),
		User:       r.first(manifest.TargetFieldKey(target, manifest.FieldUser), manifest.KeyUser),
		Password:   r.first(manifest.TargetFieldKey(target, manifest.FieldPassword), manifest.KeyPassword),
		Tablespace: r.first(manifest.TargetFieldKey(target, manifest.FieldTablespace), manifest.KeyTablespace),
	}
}

// URL returns the connection URL of target.
func (r *Resolver) URL(target string) string {
	if v, ok := r.stack.Get(manifest.TargetFieldKey(target, manifest.FieldURL)); ok {
		return v
	}
	base, ok := r.stack.Get(manifest.KeyBase)
	if !ok {
		return ""
	}
	return strings.Replace(base, manifest.Placeholder, target, 1)
}

// Root returns the administrative identity on the root URL.
func (r *Resolver) Root() pgfleet.TargetConfig {
	return pgfleet.TargetConfig{
		Driver:   r.first(manifest.KeyRootDriver),
		URL:      r.first(manifest.KeyRootURL),
		User:     r.first(manifest.KeyRootUser),
		Password: r.first(manifest.KeyRootPassword),
	}
}

// RootOn returns the administrative identity connected to target's database.
func (r *Resolver) RootOn(target string) pgfleet.TargetConfig {
	root := r.Root()
	root.URL = r.URL(target)
	return root
}
