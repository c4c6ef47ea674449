package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vvka-141/pgfleet/internal/config"
	"github.com/vvka-141/pgfleet/internal/files/filesystem"
	"github.com/vvka-141/pgfleet/internal/loader"
	"github.com/vvka-141/pgfleet/internal/locator"
	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/plan"
	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/internal/resources"
	"github.com/vvka-141/pgfleet/internal/target"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// NewRunID returns a fresh invocation id.
func NewRunID() string {
	return uuid.NewString()
}

// NewLoaderChain registers the file, classpath, jar and HTTP backends, in
// that order.
func NewLoaderChain(settings config.Settings, logger pgfleet.Logger) (*loader.Chain, error) {
	httpLoader, err := loader.NewHTTPLoader(
		loader.WithTimeout(settings.HTTP.Timeout),
		loader.WithCredentials(settings.HTTP.Login, settings.HTTP.Password),
		loader.WithCharset(settings.HTTP.Charset),
		loader.WithRetries(settings.HTTP.Retries),
		loader.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return loader.NewChain(logger,
		loader.NewFileLoader(filesystem.NewOSFileSystem()),
		loader.NewClasspathLoader(resources.FS),
		loader.NewJarLoader(),
		httpLoader,
	), nil
}

// Workspace is the per-invocation state shared by every operation. It is
// read-only once opened.
type Workspace struct {
	RunID    string
	Settings config.Settings
	Options  pgfleet.Options
	Logger   pgfleet.Logger

	Loader   pgfleet.ContentLoader
	Stack    *properties.Stack
	Resolver *target.Resolver
	Expander *target.Expander
	Builder  *plan.Builder
	Locator  *locator.ResourceLocator
}

// OpenRequest carries the inputs of Open.
type OpenRequest struct {
	RunID     string
	Settings  config.Settings
	Overrides map[string]string // system layer, strongest
	Loader    pgfleet.ContentLoader
	Logger    pgfleet.Logger
}

// Open fetches and validates the manifest and builds the configuration
// stack: compiled-in defaults < manifest < overrides. A nil Loader gets the
// standard chain for req.Settings.
func Open(ctx context.Context, req OpenRequest) (*Workspace, error) {
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	options, err := pgfleet.ParseOptions(req.Settings.Options)
	if err != nil {
		return nil, err
	}

	contentLoader := req.Loader
	if contentLoader == nil {
		chain, err := NewLoaderChain(req.Settings, logger)
		if err != nil {
			return nil, err
		}
		contentLoader = chain
	}

	logger.Verbose("Loading manifest %s", manifest.URI(req.Settings.ManifestURL, req.Settings.ManifestName))
	manifestLayer, err := manifest.Fetch(ctx, contentLoader, req.Settings.ManifestURL, req.Settings.ManifestName)
	if err != nil {
		return nil, err
	}

	stack := properties.NewStack(
		manifest.Defaults(),
		manifestLayer,
		properties.NewLayer("overrides", properties.PriorityOverride, req.Overrides),
	)
	if err := manifest.Validate(stack); err != nil {
		return nil, err
	}
	logger.Verbose("Configuration layers: %v", stack.LayerNames())

	return &Workspace{
		RunID:    req.RunID,
		Settings: req.Settings,
		Options:  options,
		Logger:   logger,
		Loader:   contentLoader,
		Stack:    stack,
		Resolver: target.NewResolver(stack),
		Expander: target.NewExpander(stack),
		Builder:  plan.NewBuilder(stack),
		Locator:  locator.New(req.Settings.ManifestURL),
	}, nil
}

// DryRun reports whether the dry_run option is set.
func (w *Workspace) DryRun() bool {
	return w.Options.Has(pgfleet.OptionDryRun)
}

// catalogs builds the unit catalog of every target. Any malformed entry
// fails the whole batch.
func (w *Workspace) catalogs(targets []string) (map[string]plan.Catalog, error) {
	out := make(map[string]plan.Catalog, len(targets))
	for _, t := range targets {
		c, err := w.Builder.Catalog(t)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t, err)
		}
		out[t] = c
	}
	return out, nil
}
