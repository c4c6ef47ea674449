package pgfleet

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	targets, err := expander.Expand("alpha,beta")
//	if errors.Is(err, pgfleet.ErrUnknownTarget) {
//	    // a listed database is not declared in the manifest
//	}
var (
	// ErrInvalidConfig indicates the process-level configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrManifestNotFound indicates the manifest could not be loaded from its location.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrInvalidManifest indicates the manifest failed validation.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrInvalidTarget indicates a target-selection expression is empty or malformed.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrUnknownTarget indicates a target name is not declared in the manifest.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrInvalidCatalogEntry indicates a unit list entry could not be parsed.
	ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

	// ErrUnknownMigrationUnit indicates a migration expression names a unit
	// that is not catalogued for the target.
	ErrUnknownMigrationUnit = errors.New("unknown migration unit")

	// ErrInvalidMigrationToken indicates a malformed name@version token.
	ErrInvalidMigrationToken = errors.New("invalid migration token")

	// ErrInvalidOption indicates an unknown engine option was requested.
	ErrInvalidOption = errors.New("invalid option")

	// ErrPermissionDenied indicates the manifest does not grant the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLoaderFailure indicates a content loader failed for a reason other
	// than the content being absent (transport or IO failure).
	ErrLoaderFailure = errors.New("loader failure")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates SQL or engine execution failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUnsupportedDriver indicates a configured driver identifier is not supported.
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

// usageErrorMarkers are fragments of cobra/pflag argument errors.
var usageErrorMarkers = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrManifestNotFound):
		return ExitManifestMissing
	case errors.Is(err, ErrPermissionDenied):
		return ExitPermissionDenied
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrInvalidManifest),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrUnknownTarget),
		errors.Is(err, ErrInvalidCatalogEntry),
		errors.Is(err, ErrUnknownMigrationUnit),
		errors.Is(err, ErrInvalidMigrationToken),
		errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrUnsupportedDriver):
		return ExitConfigError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	errStr := err.Error()
	for _, usage := range usageErrorMarkers {
		if strings.Contains(errStr, usage) {
			return ExitUsageError
		}
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
