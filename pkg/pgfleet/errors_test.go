package pgfleet_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag --foo"), pgfleet.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), pgfleet.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pgfleet.ExitUsageError},
		{"required flag", errors.New("required flag \"databases\" not set"), pgfleet.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--timeout\""), pgfleet.ExitUsageError},
		{"general error", errors.New("something went wrong"), pgfleet.ExitGeneralError},
		{"nil error", nil, pgfleet.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgfleet.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_SentinelErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pgfleet.ErrManifestNotFound, pgfleet.ExitManifestMissing},
		{pgfleet.ErrPermissionDenied, pgfleet.ExitPermissionDenied},
		{pgfleet.ErrInvalidConfig, pgfleet.ExitConfigError},
		{pgfleet.ErrInvalidManifest, pgfleet.ExitConfigError},
		{pgfleet.ErrInvalidTarget, pgfleet.ExitConfigError},
		{pgfleet.ErrUnknownTarget, pgfleet.ExitConfigError},
		{pgfleet.ErrInvalidCatalogEntry, pgfleet.ExitConfigError},
		{pgfleet.ErrUnknownMigrationUnit, pgfleet.ExitConfigError},
		{pgfleet.ErrInvalidMigrationToken, pgfleet.ExitConfigError},
		{pgfleet.ErrInvalidOption, pgfleet.ExitConfigError},
		{pgfleet.ErrUnsupportedDriver, pgfleet.ExitConfigError},
		{pgfleet.ErrApprovalDenied, pgfleet.ExitApprovalDenied},
		{pgfleet.ErrExecutionFailed, pgfleet.ExitExecutionFailed},
		{pgfleet.ErrConnectionFailed, pgfleet.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("upgrade failed: %w", tt.err)
			if got := pgfleet.ExitCodeForError(wrapped); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", wrapped, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_ConnectionPatterns(t *testing.T) {
	err := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	if got := pgfleet.ExitCodeForError(err); got != pgfleet.ExitConnectionError {
		t.Errorf("got %d, want %d", got, pgfleet.ExitConnectionError)
	}
}
