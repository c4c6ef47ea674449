package pgfleet

import (
	"math"
	"time"
)

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration, manifest, target or plan
	ExitConnectionError  = 11 // Failed to connect to database
	ExitApprovalDenied   = 12 // User denied drop approval
	ExitExecutionFailed  = 13 // SQL or engine execution failed
	ExitManifestMissing  = 14 // Manifest could not be loaded
	ExitPermissionDenied = 15 // Manifest does not grant the operation
)

const (
	// LatestVersion is the target version meaning "migrate to the newest
	// available version". No real version number may reach it.
	LatestVersion Version = math.MaxInt32

	// DefaultManifestURL is the manifest base location used when none is configured.
	DefaultManifestURL = "file:./manifests"

	// DefaultManifestName is the manifest name used when none is configured.
	DefaultManifestName = "development"

	// ManifestSuffix is appended to the manifest name to form the file name.
	ManifestSuffix = ".manifest"

	// DefaultCharset is the character encoding used to decode loaded content.
	DefaultCharset = "utf-8"

	// DefaultHTTPLogin and DefaultHTTPPassword are the placeholder credentials
	// meaning "no HTTP authentication configured".
	DefaultHTTPLogin    = "config"
	DefaultHTTPPassword = "verysecret"

	// DefaultHTTPTimeout bounds a single HTTP request made by the HTTP loader.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultHTTPRetries is the number of retries for transient HTTP failures.
	DefaultHTTPRetries = 3

	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole invocation.
	DefaultTimeout = 10 * time.Minute
)
