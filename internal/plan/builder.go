package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Builder builds plans from the configuration stack.
type Builder struct {
	stack *properties.Stack
}

// NewBuilder creates a builder over stack.
func NewBuilder(stack *properties.Stack) *Builder {
	return &Builder{stack: stack}
}

// Catalog returns target's unit catalog.
func (b *Builder) Catalog(target string) (Catalog, error) {
	return BuildCatalog(b.stack, target)
}

// Build returns the root and owner plans for target. An empty expression
// selects every catalogued unit at LatestVersion; otherwise expr is a
// /-separated list of unit or unit@version tokens.
func (b *Builder) Build(target, expr string) (root, owner pgfleet.Plan, err error) {
	catalog, err := b.Catalog(target)
	if err != nil {
		return pgfleet.Plan{}, pgfleet.Plan{}, err
	}
	return BuildFromCatalog(catalog, expr)
}

// BuildFromCatalog is Build against an already built catalog.
func BuildFromCatalog(catalog Catalog, expr string) (root, owner pgfleet.Plan, err error) {
	add := func(unit pgfleet.MigrationUnit, version pgfleet.Version) {
		entry := pgfleet.PlanEntry{Unit: unit.Name, Version: version, Priority: unit.Priority}
		if unit.Root {
			root = root.With(entry)
		} else {
			owner = owner.With(entry)
		}
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		for _, unit := range catalog.Units() {
			add(unit, pgfleet.LatestVersion)
		}
		return root, owner, nil
	}

	for _, token := range strings.Split(expr, "/") {
		name, version, err := ParseToken(token)
		if err != nil {
			return pgfleet.Plan{}, pgfleet.Plan{}, err
		}
		unit, ok := catalog.Lookup(name)
		if !ok {
			return pgfleet.Plan{}, pgfleet.Plan{}, fmt.Errorf("%s (catalogued: %s): %w",
				name, strings.Join(catalog.Names(), ", "), pgfleet.ErrUnknownMigrationUnit)
		}
		add(unit, version)
	}
	return root, owner, nil
}

// ParseToken parses unit or unit@version. Versions must lie in
// [0, LatestVersion); a bare unit means LatestVersion.
func ParseToken(token string) (string, pgfleet.Version, error) {
	invalid := func() (string, pgfleet.Version, error) {
		return "", 0, fmt.Errorf("%q: %w", token, pgfleet.ErrInvalidMigrationToken)
	}

	parts := strings.Split(strings.TrimSpace(token), "@")
	name := strings.TrimSpace(parts[0])
	if len(parts) > 2 || name == "" {
		return invalid()
	}
	if len(parts) == 1 {
		return name, pgfleet.LatestVersion, nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || v < 0 || pgfleet.Version(v) >= pgfleet.LatestVersion {
		return invalid()
	}
	return name, pgfleet.Version(v), nil
}
