// Package testinfra provides PostgreSQL servers for integration tests.
package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ConnEnvVar names an existing superuser connection URL to test against
// instead of starting a container.
const ConnEnvVar = "PGFLEET_TEST_CONN"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func sharedContainer() (string, error) {
	containerOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = ctr.ConnString
	})
	return containerConn, containerErr
}

// ConnectionString returns the test server URL.
// Priority: PGFLEET_TEST_CONN > shared container > skip.
func ConnectionString(t *testing.T) string {
	t.Helper()

	if conn := os.Getenv(ConnEnvVar); conn != "" {
		return conn
	}
	conn, err := sharedContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", ConnEnvVar, err)
	}
	return conn
}

// RequireDatabase skips in -short mode and otherwise returns a root
// TargetConfig for the test server.
func RequireDatabase(t *testing.T) pgfleet.TargetConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	return pgfleet.TargetConfig{URL: ConnectionString(t)}
}
