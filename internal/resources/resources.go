// Package resources holds the files embedded in the pgfleet binary. They are
// served by the classpath: content loader, so classpath:/sql/drop_database.sql
// resolves to sql/drop_database.sql below.
package resources

import "embed"

// FS contains the named administrative SQL statements.
//
//go:embed sql/*.sql
var FS embed.FS

// StatementURI returns the classpath URI of the named SQL statement.
func StatementURI(name string) string {
	return "classpath:/sql/" + name + ".sql"
}
