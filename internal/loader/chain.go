package loader

import (
	"context"

	"github.com/samber/lo"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Chain is an ordered registry of content loaders. Each call is handled
// exclusively by the first registered loader accepting the URI; results are
// never merged across loaders. A Chain is itself a ContentLoader.
//
// Register is not safe for concurrent use; build the chain once and share
// it read-only afterwards.
type Chain struct {
	loaders []pgfleet.ContentLoader
	logger  pgfleet.Logger
}

// NewChain creates a chain holding loaders in the given order.
func NewChain(logger pgfleet.Logger, loaders ...pgfleet.ContentLoader) *Chain {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	c := &Chain{logger: logger}
	for _, l := range loaders {
		c.Register(l)
	}
	return c
}

// Register appends a loader. Nil loaders are ignored.
func (c *Chain) Register(l pgfleet.ContentLoader) {
	if l != nil {
		c.loaders = append(c.loaders, l)
	}
}

// Len returns the number of registered loaders.
func (c *Chain) Len() int { return len(c.loaders) }

func (c *Chain) find(uri pgfleet.ContentURI) (pgfleet.ContentLoader, bool) {
	return lo.Find(c.loaders, func(l pgfleet.ContentLoader) bool {
		return l.Accepts(uri)
	})
}

// Accepts reports whether any registered loader accepts uri.
func (c *Chain) Accepts(uri pgfleet.ContentURI) bool {
	_, ok := c.find(uri)
	return ok
}

// Load dispatches to the first accepting loader. An unhandled scheme is
// reported as absence.
func (c *Chain) Load(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	l, ok := c.find(uri)
	if !ok {
		c.logger.Verbose("No loader accepts %s", uri)
		return "", false, nil
	}
	return l.Load(ctx, uri)
}

// ListFolder dispatches to the first accepting loader. An unhandled scheme
// yields an empty listing.
func (c *Chain) ListFolder(ctx context.Context, folder pgfleet.ContentURI, pattern string) ([]pgfleet.ContentURI, error) {
	l, ok := c.find(folder)
	if !ok {
		c.logger.Verbose("No loader accepts %s", folder)
		return nil, nil
	}
	return l.ListFolder(ctx, folder.WithTrailingSlash(), pattern)
}

var _ pgfleet.ContentLoader = (*Chain)(nil)
