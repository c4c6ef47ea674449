package defines

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
// Later pairs for the same key win.
//
// Example:
//
//	defs, err := ParseKeyValuePairs([]string{"pgfleet.permission.drop-db=true"})
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("define %q is not in key=value format (example: -D pgfleet.permission.create-db=true): %w", pair, pgfleet.ErrInvalidConfig)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("define has empty key: %q: %w", pair, pgfleet.ErrInvalidConfig)
		}

		result[key] = value
	}

	return result, nil
}
