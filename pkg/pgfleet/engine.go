package pgfleet

import (
	"context"
	"time"
)

// Engine is the boundary to the migration engine. The engine owns applying
// versioned changesets and the applied-version metadata; pgfleet hands it
// fully resolved plans plus the means to find content.
type Engine interface {
	// Init prepares a freshly created database (for example the engine's
	// metadata table), connected as the schema owner.
	Init(ctx context.Context, req InitRequest) error

	// Migrate brings every unit in req.Plan to its target version.
	Migrate(ctx context.Context, req MigrateRequest) error

	// Status reports the migration state of each unit.
	Status(ctx context.Context, req InspectRequest) ([]StatusResult, error)

	// History reports applied migrations per unit.
	History(ctx context.Context, req InspectRequest) ([]HistoryRecord, error)

	// Validate checks applied migrations against the available content.
	Validate(ctx context.Context, req InspectRequest) ([]ValidationResult, error)
}

// InitRequest is passed to Engine.Init.
type InitRequest struct {
	Target  string
	Owner   TargetConfig
	Options Options
}

// MigrateRequest is passed to Engine.Migrate. Identity is the owner config,
// or the root credentials on the target URL when Root is set.
type MigrateRequest struct {
	Target   string
	Identity TargetConfig
	Root     bool
	Plan     Plan
	Loader   ContentLoader
	Locator  Locator
	Options  Options
}

// InspectRequest is passed to the read-only engine operations.
type InspectRequest struct {
	Target  string
	Owner   TargetConfig
	Root    TargetConfig
	Units   []string
	Loader  ContentLoader
	Locator Locator
	Options Options
}

// StatusResult describes one unit's state. CurrentVersion is negative when
// the engine does not know it.
type StatusResult struct {
	Unit              string
	State             string
	CurrentVersion    int
	AvailableContent  int
	MigrationPossible bool
	Detail            string
}

// HistoryRecord is one applied migration step.
type HistoryRecord struct {
	Unit         string
	StartVersion int
	EndVersion   int
	Type         string
	State        string
	Direction    string
	User         string
	Created      time.Time
}

// ValidationResult is the validation outcome of one unit.
type ValidationResult struct {
	Unit   string
	State  string
	Reason string
}
