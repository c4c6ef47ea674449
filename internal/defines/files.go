package defines

import (
	"fmt"
	"maps"

	"github.com/magiconair/properties"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

func newLoader() *properties.Loader {
	return &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
}

// ParseFile parses defines file content.
func ParseFile(content []byte) (map[string]string, error) {
	p, err := newLoader().LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, pgfleet.ErrInvalidConfig)
	}
	return p.Map(), nil
}

// ReadFiles reads defines files in order. Keys in later files win.
func ReadFiles(paths []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, path := range paths {
		p, err := newLoader().LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("defines file %s: %v: %w", path, err, pgfleet.ErrInvalidConfig)
		}
		maps.Copy(result, p.Map())
	}
	return result, nil
}

// Merge builds the override layer values from the three define sources.
func Merge(project map[string]string, files []string, pairs []string) (map[string]string, error) {
	fromFiles, err := ReadFiles(files)
	if err != nil {
		return nil, err
	}
	fromFlags, err := ParseKeyValuePairs(pairs)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(project)+len(fromFiles)+len(fromFlags))
	maps.Copy(result, project)
	maps.Copy(result, fromFiles)
	maps.Copy(result, fromFlags)
	return result, nil
}
