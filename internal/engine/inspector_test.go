package engine

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgfleet/internal/files/filesystem"
	"github.com/vvka-141/pgfleet/internal/loader"
	"github.com/vvka-141/pgfleet/internal/locator"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

func fixture() (*loader.Chain, *locator.ResourceLocator) {
	mapFS := fstest.MapFS{
		"manifests/users/users.1.sql":   {Data: []byte("create table users ();")},
		"manifests/users/users.2.sql":   {Data: []byte("alter table users add id int;")},
		"manifests/orders/orders.1.sql": {Data: []byte("create table orders ();")},
		"manifests/orders/notes.txt":    {Data: []byte("ignored")},
		"manifests/blank/blank.1.sql":   {Data: []byte("-- nothing yet\n")},
		"manifests/dup/dup.1.sql":       {Data: []byte("CREATE TABLE dup ();")},
		"manifests/dup/dup.2.sql":       {Data: []byte("create table dup (); -- again")},
	}
	chain := loader.NewChain(nil, loader.NewFileLoader(filesystem.NewFSFileSystem(mapFS, ".")))
	return chain, locator.New("file:manifests")
}

func inspectRequest(units ...string) pgfleet.InspectRequest {
	chain, loc := fixture()
	return pgfleet.InspectRequest{Target: "alpha", Units: units, Loader: chain, Locator: loc}
}

func TestInspector_Status(t *testing.T) {
	results, err := NewInspector(nil).Status(context.Background(), inspectRequest("users", "orders", "ledger"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "users", results[0].Unit)
	assert.Equal(t, StateAvailable, results[0].State)
	assert.Equal(t, 2, results[0].AvailableContent)
	assert.True(t, results[0].MigrationPossible)
	assert.Equal(t, -1, results[0].CurrentVersion)

	assert.Equal(t, 1, results[1].AvailableContent)

	assert.Equal(t, StateNoContent, results[2].State)
	assert.False(t, results[2].MigrationPossible)
}

func TestInspector_Validate(t *testing.T) {
	results, err := NewInspector(nil).Validate(context.Background(), inspectRequest("users", "ledger"))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, StateValid, results[0].State)
	assert.Empty(t, results[0].Reason)
	assert.Equal(t, StateInvalid, results[1].State)
	assert.Contains(t, results[1].Reason, "manifests/ledger")
}

func TestInspector_Validate_Content(t *testing.T) {
	results, err := NewInspector(nil).Validate(context.Background(), inspectRequest("blank", "dup", "orders"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, StateInvalid, results[0].State)
	assert.Contains(t, results[0].Reason, "contains no statements")
	assert.Equal(t, StateInvalid, results[1].State)
	assert.Contains(t, results[1].Reason, "dup.2.sql duplicates")
	assert.Equal(t, StateValid, results[2].State)
}

func TestInspector_History(t *testing.T) {
	records, err := NewInspector(nil).History(context.Background(), inspectRequest("users"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInspector_Init(t *testing.T) {
	assert.NoError(t, NewInspector(nil).Init(context.Background(), pgfleet.InitRequest{Target: "alpha"}))
}

func TestInspector_Migrate(t *testing.T) {
	chain, loc := fixture()
	plan := pgfleet.Plan{}.
		With(pgfleet.PlanEntry{Unit: "orders", Version: pgfleet.LatestVersion}).
		With(pgfleet.PlanEntry{Unit: "users", Version: 2, Priority: 5})

	err := NewInspector(nil).Migrate(context.Background(), pgfleet.MigrateRequest{
		Target:  "alpha",
		Plan:    plan,
		Loader:  chain,
		Locator: loc,
		Options: pgfleet.Options{pgfleet.OptionDryRun},
	})
	assert.NoError(t, err)
}

func TestInspector_MissingCollaborators(t *testing.T) {
	_, err := NewInspector(nil).Status(context.Background(), pgfleet.InspectRequest{Units: []string{"users"}})
	assert.ErrorIs(t, err, pgfleet.ErrExecutionFailed)
}

func TestInspector_CanceledContext(t *testing.T) {
	chain, loc := fixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewInspector(nil).Migrate(ctx, pgfleet.MigrateRequest{
		Plan:    pgfleet.Plan{}.With(pgfleet.PlanEntry{Unit: "users"}),
		Loader:  chain,
		Locator: loc,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
