// Package plan builds per-target unit catalogs and turns migration
// expressions into root and owner plans.
package plan

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ParseEntry parses catalog shorthand: name, name:priority or name:Rpriority.
// The R marks a root-privilege unit; an empty priority is 0.
func ParseEntry(raw string) (pgfleet.MigrationUnit, error) {
	invalid := func() (pgfleet.MigrationUnit, error) {
		return pgfleet.MigrationUnit{}, fmt.Errorf("%q: %w", raw, pgfleet.ErrInvalidCatalogEntry)
	}

	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 2 {
		return invalid()
	}
	unit := pgfleet.MigrationUnit{Name: strings.TrimSpace(parts[0])}
	if unit.Name == "" {
		return invalid()
	}
	if len(parts) == 1 {
		return unit, nil
	}

	priority := strings.TrimSpace(parts[1])
	if rest, ok := strings.CutPrefix(priority, "R"); ok {
		unit.Root = true
		priority = rest
	}
	if priority == "" {
		return unit, nil
	}
	// Priorities are 32-bit signed integers.
	p, err := strconv.ParseInt(priority, 10, 32)
	if err != nil {
		return invalid()
	}
	unit.Priority = int(p)
	return unit, nil
}

// Catalog maps unit names to units for one target.
type Catalog struct {
	units map[string]pgfleet.MigrationUnit
}

// NewCatalog builds a catalog from entries; later entries for the same name
// replace earlier ones.
func NewCatalog(entries ...string) (Catalog, error) {
	c := Catalog{units: make(map[string]pgfleet.MigrationUnit)}
	for _, raw := range entries {
		unit, err := ParseEntry(raw)
		if err != nil {
			return Catalog{}, err
		}
		c.units[unit.Name] = unit
	}
	return c, nil
}

// BuildCatalog catalogs target's units: its own list pgfleet.db.<target>
// first, then the shared pgfleet.default.units, which overwrites same-named
// target entries.
func BuildCatalog(stack *properties.Stack, target string) (Catalog, error) {
	entries := append(stack.GetList(manifest.TargetKey(target)), stack.GetList(manifest.KeySharedUnits)...)
	c, err := NewCatalog(entries...)
	if err != nil {
		return Catalog{}, fmt.Errorf("target %s: %w", target, err)
	}
	return c, nil
}

// Lookup returns the unit called name.
func (c Catalog) Lookup(name string) (pgfleet.MigrationUnit, bool) {
	u, ok := c.units[name]
	return u, ok
}

// Names returns the unit names, sorted.
func (c Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.units))
}

// Units returns the units sorted by name.
func (c Catalog) Units() []pgfleet.MigrationUnit {
	out := make([]pgfleet.MigrationUnit, 0, len(c.units))
	for _, name := range c.Names() {
		out = append(out, c.units[name])
	}
	return out
}

// Len returns the number of units.
func (c Catalog) Len() int { return len(c.units) }
