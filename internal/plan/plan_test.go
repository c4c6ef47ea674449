package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgfleet/internal/properties"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		raw     string
		want    pgfleet.MigrationUnit
		wantErr bool
	}{
		{"users", pgfleet.MigrationUnit{Name: "users"}, false},
		{" users ", pgfleet.MigrationUnit{Name: "users"}, false},
		{"users:3", pgfleet.MigrationUnit{Name: "users", Priority: 3}, false},
		{"users:-1", pgfleet.MigrationUnit{Name: "users", Priority: -1}, false},
		{"users:R2", pgfleet.MigrationUnit{Name: "users", Priority: 2, Root: true}, false},
		{"users:R", pgfleet.MigrationUnit{Name: "users", Root: true}, false},
		{"users:", pgfleet.MigrationUnit{Name: "users"}, false},
		{"users:1:2", pgfleet.MigrationUnit{}, true},
		{"users:2147483647", pgfleet.MigrationUnit{Name: "users", Priority: 2147483647}, false},
		{"users:-2147483648", pgfleet.MigrationUnit{Name: "users", Priority: -2147483648}, false},
		{"users:2147483648", pgfleet.MigrationUnit{}, true},
		{"users:R9223372036854775807", pgfleet.MigrationUnit{}, true},
		{"users:x", pgfleet.MigrationUnit{}, true},
		{"users:Rx", pgfleet.MigrationUnit{}, true},
		{":1", pgfleet.MigrationUnit{}, true},
		{"", pgfleet.MigrationUnit{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseEntry(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, pgfleet.ErrInvalidCatalogEntry)
				assert.Contains(t, err.Error(), tt.raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntry_RoundTrip(t *testing.T) {
	units := []pgfleet.MigrationUnit{
		{Name: "orders", Priority: 7, Root: true},
		{Name: "orders", Priority: 0, Root: true},
		{Name: "users", Priority: 5},
		{Name: "ledger"},
	}
	for _, u := range units {
		got, err := ParseEntry(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got, u.String())
	}
}

func stackOf(values map[string]string) *properties.Stack {
	return properties.NewStack(properties.NewLayer("m", properties.PriorityManifest, values))
}

func TestBuildCatalog_SharedOverwritesTargetEntries(t *testing.T) {
	stack := stackOf(map[string]string{
		"pgfleet.db.alpha":      "users:1, audit:5",
		"pgfleet.default.units": "audit:R9, common",
	})

	c, err := BuildCatalog(stack, "alpha")
	require.NoError(t, err)

	assert.Equal(t, []string{"audit", "common", "users"}, c.Names())
	audit, ok := c.Lookup("audit")
	require.True(t, ok)
	assert.Equal(t, pgfleet.MigrationUnit{Name: "audit", Priority: 9, Root: true}, audit)
}

func TestBuildCatalog_InvalidEntry(t *testing.T) {
	stack := stackOf(map[string]string{"pgfleet.db.alpha": "users:1:2"})
	_, err := BuildCatalog(stack, "alpha")
	require.ErrorIs(t, err, pgfleet.ErrInvalidCatalogEntry)
	assert.Contains(t, err.Error(), "alpha")
}

func TestBuildCatalog_EmptyTarget(t *testing.T) {
	c, err := BuildCatalog(stackOf(map[string]string{"pgfleet.db.alpha": ""}), "alpha")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func partitionStack() *properties.Stack {
	return stackOf(map[string]string{"pgfleet.db.alpha": "a:1, b:R0"})
}

func TestBuild_EmptyExpressionPartitions(t *testing.T) {
	root, owner, err := NewBuilder(partitionStack()).Build("alpha", "")
	require.NoError(t, err)

	assert.Equal(t, "{a@MAX:1}", owner.String())
	assert.Equal(t, "{b@MAX:0}", root.String())
}

func TestBuild_TokenVersions(t *testing.T) {
	root, owner, err := NewBuilder(partitionStack()).Build("alpha", "a@4/b")
	require.NoError(t, err)

	assert.Equal(t, "{a@4:1}", owner.String())
	assert.Equal(t, "{b@MAX:0}", root.String())

	entry, ok := owner.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, pgfleet.PlanEntry{Unit: "a", Version: 4, Priority: 1}, entry)
}

func TestBuild_SubsetAndRepeat(t *testing.T) {
	root, owner, err := NewBuilder(partitionStack()).Build("alpha", "a@2/a@3")
	require.NoError(t, err)
	assert.True(t, root.IsEmpty())
	assert.Equal(t, "{a@3:1}", owner.String())
}

func TestBuild_Disjoint(t *testing.T) {
	stack := stackOf(map[string]string{
		"pgfleet.db.alpha":      "a:1, b:R0, c:R4, d",
		"pgfleet.default.units": "e:2",
	})
	root, owner, err := NewBuilder(stack).Build("alpha", "")
	require.NoError(t, err)

	assert.Equal(t, 2, root.Len())
	assert.Equal(t, 3, owner.Len())
	for _, e := range root.Entries() {
		_, inOwner := owner.Lookup(e.Unit)
		assert.False(t, inOwner, e.Unit)
	}
	assert.Equal(t, "{e@MAX:2, a@MAX:1, d@MAX:0}", owner.String())
	assert.Equal(t, "{c@MAX:4, b@MAX:0}", root.String())
}

func TestBuild_Idempotent(t *testing.T) {
	b := NewBuilder(partitionStack())
	r1, o1, err := b.Build("alpha", "a@4/b")
	require.NoError(t, err)
	r2, o2, err := b.Build("alpha", "a@4/b")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Equal(t, o1, o2)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr error
	}{
		{"z", pgfleet.ErrUnknownMigrationUnit},
		{"a/z@2", pgfleet.ErrUnknownMigrationUnit},
		{"a@1@2", pgfleet.ErrInvalidMigrationToken},
		{"a@x", pgfleet.ErrInvalidMigrationToken},
		{"a@-1", pgfleet.ErrInvalidMigrationToken},
		{"a@2147483647", pgfleet.ErrInvalidMigrationToken},
		{"a//b", pgfleet.ErrInvalidMigrationToken},
		{"@3", pgfleet.ErrInvalidMigrationToken},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			root, owner, err := NewBuilder(partitionStack()).Build("alpha", tt.expr)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, root.IsEmpty())
			assert.True(t, owner.IsEmpty())
		})
	}
}

func TestBuild_UnknownUnitNamed(t *testing.T) {
	_, _, err := NewBuilder(partitionStack()).Build("alpha", "ghost")
	require.ErrorIs(t, err, pgfleet.ErrUnknownMigrationUnit)
	assert.Contains(t, err.Error(), "ghost")
}

func TestParseToken(t *testing.T) {
	name, v, err := ParseToken(" users @ 12 ")
	require.NoError(t, err)
	assert.Equal(t, "users", name)
	assert.Equal(t, pgfleet.Version(12), v)

	name, v, err = ParseToken("users")
	require.NoError(t, err)
	assert.Equal(t, "users", name)
	assert.Equal(t, pgfleet.LatestVersion, v)
}
