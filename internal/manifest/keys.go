// Package manifest names the manifest keys, fetches a manifest through the
// loader chain and validates it.
package manifest

import "fmt"

// Prefix is the namespace of every manifest key.
const Prefix = "pgfleet."

const (
	KeyBase         = Prefix + "default.base"
	KeyRootURL      = Prefix + "default.root_url"
	KeyRootUser     = Prefix + "default.root_user"
	KeyRootPassword = Prefix + "default.root_password"
	KeyRootDriver   = Prefix + "default.root_driver"

	KeyUser       = Prefix + "default.user"
	KeyPassword   = Prefix + "default.password"
	KeyDriver     = Prefix + "default.driver"
	KeyTablespace = Prefix + "default.tablespace"

	// KeySharedUnits lists the units catalogued for every target.
	KeySharedUnits = Prefix + "default.units"

	// TargetsPrefix is the namespace of declared targets: pgfleet.db.<target>
	// holds the target's unit list.
	TargetsPrefix = Prefix + "db"
)

// Per-target override fields below pgfleet.db.<target>.
const (
	FieldURL        = "url"
	FieldUser       = "user"
	FieldPassword   = "password"
	FieldDriver     = "driver"
	FieldTablespace = "tablespace"
)

// TargetKey returns pgfleet.db.<target>, the target's unit list key.
func TargetKey(target string) string {
	return TargetsPrefix + "." + target
}

// TargetFieldKey returns pgfleet.db.<target>.<field>.
func TargetFieldKey(target, field string) string {
	return TargetKey(target) + "." + field
}

// Operation names an operation gated by a permission flag.
type Operation string

const (
	OpCreate   Operation = "create"
	OpDrop     Operation = "drop"
	OpClean    Operation = "clean"
	OpUpgrade  Operation = "upgrade"
	OpStatus   Operation = "status"
	OpHistory  Operation = "history"
	OpValidate Operation = "validate"
)

// Operations lists every gated operation.
var Operations = []Operation{OpCreate, OpDrop, OpClean, OpUpgrade, OpStatus, OpHistory, OpValidate}

// PermissionKey returns pgfleet.permission.<op>-db.
func PermissionKey(op Operation) string {
	return fmt.Sprintf("%spermission.%s-db", Prefix, op)
}

// RequiredKeys must be present in a valid manifest.
var RequiredKeys = []string{KeyBase, KeyRootURL, KeyRootUser, KeyRootPassword, KeyUser, KeyPassword}

// NonBlankKeys must additionally hold a non-blank value.
var NonBlankKeys = []string{KeyBase, KeyRootURL, KeyRootUser, KeyUser}

// Placeholder is the target-name substitution marker of the base URL template.
const Placeholder = "%s"
