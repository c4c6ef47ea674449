package manifest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// URI returns the location of manifest name below baseURL.
func URI(baseURL, name string) pgfleet.ContentURI {
	return pgfleet.ContentURI(baseURL).Child(name + pgfleet.ManifestSuffix)
}

// Fetch loads manifest name from baseURL and parses it into a
// manifest-priority layer. Absence fails with pgfleet.ErrManifestNotFound.
func Fetch(ctx context.Context, loader pgfleet.ContentLoader, baseURL, name string) (properties.Layer, error) {
	uri := URI(baseURL, name)
	text, found, err := loader.Load(ctx, uri)
	if err != nil {
		return properties.Layer{}, fmt.Errorf("fetch manifest: %w", err)
	}
	if !found {
		return properties.Layer{}, fmt.Errorf("%s: %w", uri, pgfleet.ErrManifestNotFound)
	}
	return properties.Parse(uri.String(), properties.PriorityManifest, text)
}

// Defaults returns the compiled-in defaults layer: every permission false.
func Defaults() properties.Layer {
	values := make(map[string]string, len(Operations))
	for _, op := range Operations {
		values[PermissionKey(op)] = "false"
	}
	return properties.NewLayer("defaults", properties.PriorityDefaults, values)
}

// Validate checks the required keys and the base URL template. Every
// problem is reported; the joined error wraps pgfleet.ErrInvalidManifest.
func Validate(stack *properties.Stack) error {
	var errs []error
	for _, key := range RequiredKeys {
		if _, ok := stack.Get(key); !ok {
			errs = append(errs, fmt.Errorf("missing required key %s", key))
		}
	}
	for _, key := range NonBlankKeys {
		if v, ok := stack.Get(key); ok && strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("key %s must not be blank", key))
		}
	}
	if base, ok := stack.Get(KeyBase); ok && strings.TrimSpace(base) != "" {
		if err := ValidateTemplate(base); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", pgfleet.ErrInvalidManifest, errors.Join(errs...))
}

// ValidateTemplate requires exactly one target-name placeholder.
func ValidateTemplate(base string) error {
	if n := strings.Count(base, Placeholder); n != 1 {
		return fmt.Errorf("key %s=%q must contain exactly one %s, found %d", KeyBase, base, Placeholder, n)
	}
	return nil
}

// Permitted reports whether the manifest grants op. Absence is denial.
func Permitted(stack *properties.Stack, op Operation) (bool, error) {
	return stack.GetBool(PermissionKey(op))
}

// RequirePermission fails with pgfleet.ErrPermissionDenied unless op is granted.
func RequirePermission(stack *properties.Stack, op Operation) error {
	ok, err := Permitted(stack, op)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("operation %s requires %s=true: %w", op, PermissionKey(op), pgfleet.ErrPermissionDenied)
	}
	return nil
}
