// Package manager runs the administrative statements of the create, drop and
// clean operations against PostgreSQL.
//
// Statements are named SQL templates loaded through a content loader from
// classpath:/sql/<name>.sql (see internal/resources) and rendered with
// text/template. Templates quote values with two helpers:
//   - ident: pgx.Identifier quoting for role, database and tablespace names
//   - literal: single-quoted string literal, for passwords
//
// Existence checks bind their argument as $1 instead.
//
// # Example Usage
//
//	mgr := manager.New(classpathLoader)
//
//	exists, err := mgr.DatabaseExists(ctx, conn, "alpha")
//	if !exists {
//	    err = mgr.CreateDatabase(ctx, conn, "alpha", "owner", "")
//	}
//
// # Thread Safety
//
// Manager holds no mutable state; thread safety depends on the injected
// DBConnection.
package manager
