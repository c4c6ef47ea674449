// Package engine provides Inspector, the built-in engine. It discovers each
// unit's content through the locator and loader it is handed and reports
// what it finds; it never changes a database.
package engine

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgfleet/internal/checksum"
	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Unit states reported by the Inspector.
const (
	StateAvailable = "AVAILABLE"
	StateNoContent = "NO_CONTENT"
	StateValid     = "VALID"
	StateInvalid   = "INVALID"
)

// Inspector implements pgfleet.Engine by content discovery.
type Inspector struct {
	logger pgfleet.Logger
}

// NewInspector creates an Inspector. A nil logger discards output.
func NewInspector(logger pgfleet.Logger) *Inspector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Inspector{logger: logger}
}

type discovery struct {
	folder  pgfleet.ContentURI
	pattern string
	content []pgfleet.ContentURI
}

func discover(ctx context.Context, loader pgfleet.ContentLoader, locator pgfleet.Locator, unit string) (discovery, error) {
	if loader == nil || locator == nil {
		return discovery{}, fmt.Errorf("unit %s: no loader or locator configured: %w", unit, pgfleet.ErrExecutionFailed)
	}
	folder, pattern := locator.Locate(unit)
	content, err := loader.ListFolder(ctx, folder, pattern)
	if err != nil {
		return discovery{}, fmt.Errorf("unit %s: %w", unit, err)
	}
	return discovery{folder: folder, pattern: pattern, content: content}, nil
}

// Init has nothing to prepare.
func (i *Inspector) Init(ctx context.Context, req pgfleet.InitRequest) error {
	i.logger.Verbose("Engine init for %s as %s: nothing to prepare", req.Target, req.Owner.User)
	return nil
}

// Migrate walks the plan in execution order and reports the content found
// for each entry.
func (i *Inspector) Migrate(ctx context.Context, req pgfleet.MigrateRequest) error {
	identity := "owner"
	if req.Root {
		identity = "root"
	}
	prefix := ""
	if req.Options.Has(pgfleet.OptionDryRun) {
		prefix = "[dry run] "
	}

	for _, entry := range req.Plan.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := discover(ctx, req.Loader, req.Locator, entry.Unit)
		if err != nil {
			return err
		}
		i.logger.Info("%s%s: %s plan entry %s as %s, %d content file(s) under %s",
			prefix, req.Target, identity, entry, req.Identity.User, len(d.content), d.folder)
		for _, uri := range d.content {
			i.logger.Verbose("  %s", uri)
		}
	}
	return nil
}

// Status reports the number of content files per unit. The current version
// is unknown to the Inspector and reported as -1.
func (i *Inspector) Status(ctx context.Context, req pgfleet.InspectRequest) ([]pgfleet.StatusResult, error) {
	results := make([]pgfleet.StatusResult, 0, len(req.Units))
	for _, unit := range req.Units {
		d, err := discover(ctx, req.Loader, req.Locator, unit)
		if err != nil {
			return nil, err
		}
		state := StateNoContent
		if len(d.content) > 0 {
			state = StateAvailable
		}
		results = append(results, pgfleet.StatusResult{
			Unit:              unit,
			State:             state,
			CurrentVersion:    -1,
			AvailableContent:  len(d.content),
			MigrationPossible: len(d.content) > 0,
			Detail:            string(d.folder),
		})
	}
	return results, nil
}

// History has no applied-version store and reports nothing.
func (i *Inspector) History(ctx context.Context, req pgfleet.InspectRequest) ([]pgfleet.HistoryRecord, error) {
	return nil, nil
}

// Validate flags units without any content, content that cannot be read,
// scripts holding only comments, and scripts that duplicate another script
// of the same unit once formatting and comments are ignored.
func (i *Inspector) Validate(ctx context.Context, req pgfleet.InspectRequest) ([]pgfleet.ValidationResult, error) {
	results := make([]pgfleet.ValidationResult, 0, len(req.Units))
	for _, unit := range req.Units {
		d, err := discover(ctx, req.Loader, req.Locator, unit)
		if err != nil {
			return nil, err
		}
		r := pgfleet.ValidationResult{Unit: unit, State: StateValid}
		if len(d.content) == 0 {
			r.State = StateInvalid
			r.Reason = fmt.Sprintf("no content under %s matching %s", d.folder, d.pattern)
		} else {
			reason, err := checkContent(ctx, req.Loader, d.content)
			if err != nil {
				return nil, fmt.Errorf("unit %s: %w", unit, err)
			}
			if reason != "" {
				r.State = StateInvalid
				r.Reason = reason
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// checkContent loads every listed script and returns the first problem found.
func checkContent(ctx context.Context, loader pgfleet.ContentLoader, content []pgfleet.ContentURI) (string, error) {
	seen := make(map[string]pgfleet.ContentURI, len(content))
	for _, uri := range content {
		text, found, err := loader.Load(ctx, uri)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("%s is listed but cannot be loaded", uri), nil
		}
		if checksum.IsBlank(text) {
			return fmt.Sprintf("%s contains no statements", uri), nil
		}
		sum := checksum.Fingerprint(text)
		if first, dup := seen[sum]; dup {
			return fmt.Sprintf("%s duplicates %s", uri, first), nil
		}
		seen[sum] = uri
	}
	return "", nil
}

var _ pgfleet.Engine = (*Inspector)(nil)
