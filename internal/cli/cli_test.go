package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/internal/services"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

const fleetManifest = `
pgfleet.default.base=postgres://db.invalid:5432/%s
pgfleet.default.root_url=postgres://db.invalid:5432/postgres
pgfleet.default.root_user=postgres
pgfleet.default.root_password=admin
pgfleet.default.user=owner
pgfleet.default.password=secret
pgfleet.db.alpha=users:1,ext:R
pgfleet.db.beta=ledger
`

// fleet writes a manifest named "fleet" plus unit content into a temp
// directory, isolates the working directory and returns the manifest URL.
func fleet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fleet.manifest"), fleetManifest)
	writeFile(t, filepath.Join(dir, "users", "users.1.sql"), "create table users(id int);")
	writeFile(t, filepath.Join(dir, "users", "users.2.sql"), "alter table users add name text;")

	t.Chdir(t.TempDir())
	t.Setenv("PGFLEET_MANIFEST_URL", "")
	t.Setenv("PGFLEET_MANIFEST_NAME", "")
	return "file://" + filepath.ToSlash(dir)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runCLI(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := execute(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"create without targets", []string{"create"}},
		{"drop with two args", []string{"drop", "a", "b"}},
		{"upgrade without migrations", []string{"upgrade"}},
		{"status with two args", []string{"status", "a", "b"}},
		{"unknown flag", []string{"plan", "alpha", "--nope"}},
		{"unknown command", []string{"migrate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(tt.args...)
			require.Error(t, err)
			assert.Equal(t, pgfleet.ExitUsageError, pgfleet.ExitCodeForError(err))
		})
	}
}

func TestRootHelpListsExitCodes(t *testing.T) {
	stdout, _, err := runCLI("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exit Codes:")
	assert.Contains(t, stdout, "15 - Operation not permitted")
}

func TestPlan(t *testing.T) {
	url := fleet(t)

	stdout, _, err := runCLI("plan", "alpha=users@1/ext,beta", "--manifest-url", url, "--manifest-name", "fleet")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plan for alpha")
	assert.Contains(t, stdout, "Plan for beta")
	assert.Contains(t, stdout, "users")
	assert.Contains(t, stdout, "ledger")
	assert.Contains(t, stdout, "root")
}

func TestPlan_Errors(t *testing.T) {
	url := fleet(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown target", []string{"plan", "gamma"}, pgfleet.ExitConfigError},
		{"unknown unit", []string{"plan", "alpha=nope"}, pgfleet.ExitConfigError},
		{"invalid option", []string{"plan", "alpha", "--options", "fast"}, pgfleet.ExitConfigError},
		{"missing manifest", []string{"plan", "alpha", "--manifest-name", "absent"}, pgfleet.ExitManifestMissing},
		{"malformed define", []string{"plan", "alpha", "-D", "novalue"}, pgfleet.ExitConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--manifest-url", url, "--manifest-name", "fleet"}, tt.args...)
			_, _, err := runCLI(args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, pgfleet.ExitCodeForError(err))
		})
	}
}

func TestStatus(t *testing.T) {
	url := fleet(t)

	t.Run("not permitted by default", func(t *testing.T) {
		_, _, err := runCLI("status", "--manifest-url", url, "--manifest-name", "fleet")
		require.Error(t, err)
		assert.Equal(t, pgfleet.ExitPermissionDenied, pgfleet.ExitCodeForError(err))
	})

	t.Run("granted by define", func(t *testing.T) {
		stdout, _, err := runCLI("status", "alpha",
			"--manifest-url", url, "--manifest-name", "fleet",
			"-D", "pgfleet.permission.status-db=true")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Status of alpha")
		assert.Contains(t, stdout, "AVAILABLE")
		assert.Contains(t, stdout, "NO_CONTENT")
		assert.NotContains(t, stdout, "Status of beta")
	})

	t.Run("granted by defines file", func(t *testing.T) {
		grants := filepath.Join(t.TempDir(), "grants.properties")
		writeFile(t, grants, "pgfleet.permission.validate-db=true\n")

		stdout, _, err := runCLI("validate",
			"--manifest-url", url, "--manifest-name", "fleet",
			"--defines-file", grants)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Validation of alpha")
		assert.Contains(t, stdout, "Validation of beta")
	})
}

func TestDrop_NonInteractiveRequiresForce(t *testing.T) {
	url := fleet(t)
	orig := interactive
	defer func() { interactive = orig }()
	interactive = func() bool { return false }

	_, _, err := runCLI("drop", "alpha",
		"--manifest-url", url, "--manifest-name", "fleet",
		"-D", "pgfleet.permission.drop-db=true")
	require.Error(t, err)
	assert.ErrorIs(t, err, pgfleet.ErrApprovalDenied)
	assert.Equal(t, pgfleet.ExitApprovalDenied, pgfleet.ExitCodeForError(err))
}

func TestCreate_DryRun(t *testing.T) {
	url := fleet(t)

	_, stderr, err := runCLI("create", "all",
		"--manifest-url", url, "--manifest-name", "fleet",
		"--options", "dry_run",
		"-D", "pgfleet.permission.create-db=true")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 target(s) succeeded")
}

func TestSettingsPrecedence(t *testing.T) {
	url := fleet(t)
	wd, err := os.Getwd()
	require.NoError(t, err)

	// pgfleet.yaml names a manifest that does not exist, the environment
	// corrects the name, and the flag corrects the location.
	writeFile(t, filepath.Join(wd, "pgfleet.yaml"), "manifest:\n  url: file:///nowhere\n  name: absent\n")
	t.Setenv("PGFLEET_MANIFEST_NAME", "fleet")

	_, _, err = runCLI("plan", "beta")
	require.Error(t, err)
	assert.Equal(t, pgfleet.ExitManifestMissing, pgfleet.ExitCodeForError(err))

	stdout, _, err := runCLI("plan", "beta", "--manifest-url", url)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plan for beta")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		report    services.Report
		wantLevel string
		wantMsg   string
	}{
		{"all succeeded", reportOf("upgrade", []string{"a"}, nil), `"level":"info"`, "1 target(s) succeeded"},
		{"some failed", reportOf("upgrade", []string{"a"}, []string{"b", "c"}), `"level":"warn"`, "1 succeeded, 2 failed (b, c)"},
		{"all failed", reportOf("clean", nil, []string{"b"}), `"level":"warn"`, "0 succeeded, 1 failed (b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			summarize(logging.NewTo(&out, "json", "run-7", false), tt.report)

			assert.Contains(t, out.String(), tt.wantLevel)
			assert.Contains(t, out.String(), tt.wantMsg)
			assert.Contains(t, out.String(), `"run":"run-7"`)
		})
	}
}

func TestValidate_TargetFailureStillSucceeds(t *testing.T) {
	url := fleet(t)
	dir := strings.TrimPrefix(url, "file://")
	// A regular file where the ledger folder belongs makes listing fail.
	writeFile(t, filepath.Join(dir, "ledger"), "")

	stdout, stderr, err := runCLI("validate", "alpha,beta",
		"--manifest-url", url, "--manifest-name", "fleet",
		"-D", "pgfleet.permission.validate-db=true")
	require.NoError(t, err)
	assert.Equal(t, pgfleet.ExitSuccess, pgfleet.ExitCodeForError(err))
	assert.Contains(t, stdout, "Validation of alpha")
	assert.NotContains(t, stdout, "Validation of beta")
	assert.Contains(t, stderr, "1 succeeded, 1 failed (beta)")
}

func reportOf(op string, ok, failed []string) services.Report {
	return services.Report{Operation: manifest.Operation(op), Succeeded: ok, Failed: failed}
}

func TestInit_ThenPlan(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGFLEET_MANIFEST_URL", "")
	t.Setenv("PGFLEET_MANIFEST_NAME", "")

	stdout, _, err := runCLI("init", "orders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created project orders")
	assert.Contains(t, stdout, "development.manifest")

	t.Chdir("orders")
	stdout, _, err = runCLI("plan", "orders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plan for orders")
	assert.Contains(t, stdout, "core")

	stdout, _, err = runCLI("status")
	require.NoError(t, err, "pgfleet.yaml grants status")
	assert.Contains(t, stdout, "Status of orders")
}

func TestInit_Rejects(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runCLI("init", "Bad-Name")
	require.Error(t, err)
	assert.Equal(t, pgfleet.ExitConfigError, pgfleet.ExitCodeForError(err))
}
