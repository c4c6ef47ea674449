// Package properties parses key=value manifest text and merges layers of
// such values into one queryable Stack.
//
// Layers carry a priority: overrides beat the manifest, which beats the
// compiled-in defaults. Between layers of equal priority the one added last
// wins. The stack never reports duplicate keys as errors.
package properties
