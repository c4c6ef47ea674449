package loader

import (
	"fmt"
	"regexp"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// namePattern matches whole entry names. The zero value matches everything.
type namePattern struct {
	re *regexp.Regexp
}

func compilePattern(pattern string) (namePattern, error) {
	if pattern == "" {
		return namePattern{}, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return namePattern{}, fmt.Errorf("listing pattern %q: %v: %w", pattern, err, pgfleet.ErrLoaderFailure)
	}
	return namePattern{re: re}, nil
}

func (p namePattern) matches(name string) bool {
	return p.re == nil || p.re.MatchString(name)
}

// children builds child URIs of folder for the names matching p.
func (p namePattern) children(folder pgfleet.ContentURI, names []string) []pgfleet.ContentURI {
	out := make([]pgfleet.ContentURI, 0, len(names))
	for _, name := range names {
		if p.matches(name) {
			out = append(out, folder.Child(name))
		}
	}
	return out
}
