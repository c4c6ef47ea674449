package pgfleet

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TargetConfig holds the resolved connection settings for one database
// identity. Driver and Tablespace are optional; an empty field means unset.
type TargetConfig struct {
	Driver     string
	URL        string
	User       string
	Password   string
	Tablespace string
}

// String renders the config without its password.
func (c TargetConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "****"
	}
	return fmt.Sprintf("url=%s user=%s password=%s driver=%s tablespace=%s",
		c.URL, c.User, password, c.Driver, c.Tablespace)
}

// MigrationUnit is a named, independently versioned body of migration work
// catalogued for a target.
type MigrationUnit struct {
	Name     string
	Priority int
	Root     bool // migrations must run under the administrative identity
}

// String renders the unit in catalog shorthand: name, name:priority or name:Rpriority.
func (u MigrationUnit) String() string {
	switch {
	case u.Root:
		return u.Name + ":R" + strconv.Itoa(u.Priority)
	case u.Priority != 0:
		return u.Name + ":" + strconv.Itoa(u.Priority)
	default:
		return u.Name
	}
}

// Version is a unit's target version. LatestVersion means "newest available".
type Version int

// String renders LatestVersion as MAX.
func (v Version) String() string {
	if v == LatestVersion {
		return "MAX"
	}
	return strconv.Itoa(int(v))
}

// PlanEntry asks the engine to bring one unit to a version.
type PlanEntry struct {
	Unit     string
	Version  Version
	Priority int
}

// String renders the entry as unit@version:priority.
func (e PlanEntry) String() string {
	return fmt.Sprintf("%s@%s:%d", e.Unit, e.Version, e.Priority)
}

// Plan is an immutable set of plan entries, at most one per unit.
// The zero value is an empty plan.
type Plan struct {
	entries []PlanEntry
}

// With returns a new plan containing entry. An existing entry for the same
// unit is replaced. The receiver is not modified.
func (p Plan) With(entry PlanEntry) Plan {
	next := make([]PlanEntry, 0, len(p.entries)+1)
	replaced := false
	for _, e := range p.entries {
		if e.Unit == entry.Unit {
			next = append(next, entry)
			replaced = true
			continue
		}
		next = append(next, e)
	}
	if !replaced {
		next = append(next, entry)
	}
	return Plan{entries: next}
}

// Len returns the number of entries.
func (p Plan) Len() int { return len(p.entries) }

// IsEmpty reports whether the plan has no entries.
func (p Plan) IsEmpty() bool { return len(p.entries) == 0 }

// Lookup returns the entry for unit, if present.
func (p Plan) Lookup(unit string) (PlanEntry, bool) {
	for _, e := range p.entries {
		if e.Unit == unit {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// Entries returns a copy of the entries in execution order:
// priority descending, then unit name ascending.
func (p Plan) Entries() []PlanEntry {
	out := slices.Clone(p.entries)
	slices.SortFunc(out, func(a, b PlanEntry) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.Unit, b.Unit)
	})
	return out
}

// String renders the plan as {a@MAX:1, b@4:0} in execution order.
func (p Plan) String() string {
	parts := make([]string, 0, len(p.entries))
	for _, e := range p.Entries() {
		parts = append(parts, e.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Option is an engine option selected on the command line.
type Option string

const (
	OptionDryRun  Option = "dry_run"
	OptionVerbose Option = "verbose"
)

var knownOptions = []Option{OptionDryRun, OptionVerbose}

// Options is an ordered set of options.
type Options []Option

// ParseOptions parses a comma-separated, case-insensitive option list.
// An empty string yields no options.
func ParseOptions(s string) (Options, error) {
	var opts Options
	for _, raw := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		opt := Option(name)
		if !slices.Contains(knownOptions, opt) {
			return nil, fmt.Errorf("option %q (known: dry_run, verbose): %w", raw, ErrInvalidOption)
		}
		if !opts.Has(opt) {
			opts = append(opts, opt)
		}
	}
	return opts, nil
}

// Has reports whether opt is set.
func (o Options) Has(opt Option) bool {
	return slices.Contains(o, opt)
}
