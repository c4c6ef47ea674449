package target

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// All selects every declared target.
const All = "all"

// Selection is a target together with its migration expression. An empty
// Units means every catalogued unit.
type Selection struct {
	Target string
	Units  string
}

// Expander turns selection expressions into declared target names.
type Expander struct {
	stack *properties.Stack
}

// NewExpander creates an expander over stack.
func NewExpander(stack *properties.Stack) *Expander {
	return &Expander{stack: stack}
}

// Targets returns the declared targets (the direct children of pgfleet.db),
// sorted.
func (e *Expander) Targets() []string {
	return e.stack.SubsetKeys(manifest.TargetsPrefix)
}

// Expand parses a comma-separated list of target names, or "all". Repeated
// names are kept once at their first position.
func (e *Expander) Expand(expr string) ([]string, error) {
	selections, err := e.ExpandSelections(expr)
	if err != nil {
		return nil, err
	}
	for _, s := range selections {
		if s.Units != "" {
			return nil, fmt.Errorf("%q: unit selection is not accepted here: %w", s.Target+"="+s.Units, pgfleet.ErrInvalidTarget)
		}
	}
	return lo.Map(selections, func(s Selection, _ int) string { return s.Target }), nil
}

// ExpandSelections parses "all" or a comma-separated list of target and
// target=units items. A repeated target keeps its first position and takes
// the unit expression of its last occurrence. Nothing is returned unless
// every item is valid.
func (e *Expander) ExpandSelections(expr string) ([]Selection, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty target expression: %w", pgfleet.ErrInvalidTarget)
	}

	known := e.Targets()
	if strings.EqualFold(expr, All) {
		return lo.Map(known, func(name string, _ int) Selection { return Selection{Target: name} }), nil
	}

	var out []Selection
	for _, item := range strings.Split(expr, ",") {
		item = strings.TrimSpace(item)
		parts := strings.Split(item, "=")
		name := strings.TrimSpace(parts[0])
		if len(parts) > 2 || name == "" {
			return nil, fmt.Errorf("malformed item %q in %q: %w", item, expr, pgfleet.ErrInvalidTarget)
		}
		if !lo.Contains(known, name) {
			return nil, fmt.Errorf("%s: %w", name, pgfleet.ErrUnknownTarget)
		}

		sel := Selection{Target: name}
		if len(parts) == 2 {
			sel.Units = strings.TrimSpace(parts[1])
		}
		if i := lo.IndexOf(lo.Map(out, func(s Selection, _ int) string { return s.Target }), name); i >= 0 {
			out[i].Units = sel.Units
			continue
		}
		out = append(out, sel)
	}
	return out, nil
}
