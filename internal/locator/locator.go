// Package locator maps migration units to the folder and name pattern their
// content is listed from.
package locator

import (
	"regexp"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ResourceLocator places each unit's content in a folder named after the
// unit below the manifest location.
type ResourceLocator struct {
	base pgfleet.ContentURI
}

// New creates a locator rooted at the manifest base location.
func New(manifestURL string) *ResourceLocator {
	return &ResourceLocator{base: pgfleet.ContentURI(manifestURL).WithTrailingSlash()}
}

// Base returns the normalized base location.
func (l *ResourceLocator) Base() pgfleet.ContentURI { return l.base }

// Locate returns <base>/<unit> and the pattern <unit>.* matching the unit's
// content files. Regex metacharacters in the unit name are escaped.
func (l *ResourceLocator) Locate(unit string) (pgfleet.ContentURI, string) {
	return l.base.Child(unit), regexp.QuoteMeta(unit) + ".*"
}

var _ pgfleet.Locator = (*ResourceLocator)(nil)
