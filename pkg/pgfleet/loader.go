package pgfleet

import (
	"context"
	"net/url"
	"strings"
)

// ContentURI is a scheme-qualified content location such as
// file:///srv/manifests/, classpath:/sql/drop_database.sql,
// jar:file:///opt/bundle.zip!/users/ or https://depot.example.com/db/.
type ContentURI string

// Scheme returns the lower-cased scheme, or "" when the URI has none.
func (u ContentURI) Scheme() string {
	s := string(u)
	i := strings.Index(s, ":")
	if i <= 0 {
		return ""
	}
	scheme := strings.ToLower(s[:i])
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return ""
		}
	}
	return scheme
}

// Path returns the decoded path component for hierarchical URIs and the
// decoded opaque part for the others (jar:, classpath:, file:relative).
// Query and fragment are stripped.
func (u ContentURI) Path() string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return ""
	}
	if parsed.Opaque != "" {
		if p, err := url.PathUnescape(parsed.Opaque); err == nil {
			return p
		}
		return parsed.Opaque
	}
	return parsed.Path
}

// splitSuffix separates a trailing ?query or #fragment from the rest.
func (u ContentURI) splitSuffix() (string, string) {
	s := string(u)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// WithTrailingSlash returns the URI with its path guaranteed to end with a
// separator so child names append unambiguously. A query or fragment stays
// after the path.
func (u ContentURI) WithTrailingSlash() ContentURI {
	base, suffix := u.splitSuffix()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return ContentURI(base + suffix)
}

// Child appends name below u. Each '/'-separated segment of name is
// path-escaped, so names holding '#', '?' or '%' read back unchanged through
// Path. As with relative resolution, the query and fragment of u are not
// carried over to the child.
func (u ContentURI) Child(name string) ContentURI {
	base, _ := u.WithTrailingSlash().splitSuffix()
	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return ContentURI(base + strings.Join(segments, "/"))
}

// String implements fmt.Stringer.
func (u ContentURI) String() string { return string(u) }

// ContentLoader resolves one URI scheme family to text or a folder listing.
//
// Absence is not an error: Load reports found=false and ListFolder an empty
// listing. A non-nil error always means the backend failed (IO, transport,
// unexpected status) and wraps ErrLoaderFailure.
type ContentLoader interface {
	// Accepts reports whether this loader handles the URI's scheme.
	Accepts(uri ContentURI) bool

	// Load returns the content at uri.
	Load(ctx context.Context, uri ContentURI) (content string, found bool, err error)

	// ListFolder returns the children of folder whose names fully match the
	// regular expression pattern. An empty pattern matches every child.
	ListFolder(ctx context.Context, folder ContentURI, pattern string) ([]ContentURI, error)
}

// Locator maps a migration unit to the folder and name pattern its content
// is listed from.
type Locator interface {
	Locate(unit string) (base ContentURI, pattern string)
}
