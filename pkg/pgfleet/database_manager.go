package pgfleet

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts database connection operations needed by DatabaseManager.
// This interface decouples the public API from pgx-specific types while providing
// the essential operations for database administration.
//
// Thread-Safety: Implementations should follow their underlying connection's
// thread-safety guarantees. Connection pool implementations are typically safe
// for concurrent use.
type DBConnection interface {
	// Exec executes a statement without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Acquire obtains a dedicated connection for statements that cannot run
	// inside a transaction block (CREATE DATABASE, DROP DATABASE).
	// Caller must call Release() on the returned PooledConnection when done.
	Acquire(ctx context.Context) (PooledConnection, error)

	// Close releases every resource held by the connection.
	Close()
}

// Row represents a single row returned by QueryRow.
type Row interface {
	// Scan reads the values from the row into dest values.
	Scan(dest ...any) error
}

// PooledConnection represents a connection acquired from a pool.
// The caller must call Release() when done to return it to the pool.
type PooledConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Release()
}

// Connector opens a connection for one identity.
type Connector interface {
	// Connect establishes the connection. The caller closes it.
	Connect(ctx context.Context) (DBConnection, error)
}

// ConnectorFactory builds a Connector for a resolved identity.
type ConnectorFactory func(cfg TargetConfig) (Connector, error)

// DatabaseManager performs the administrative statements of the create,
// drop and clean operations. Every method runs a named statement.
type DatabaseManager interface {
	UserExists(ctx context.Context, conn DBConnection, user string) (bool, error)
	CreateUser(ctx context.Context, conn DBConnection, user, password string) error

	DatabaseExists(ctx context.Context, conn DBConnection, dbName string) (bool, error)
	TablespaceExists(ctx context.Context, conn DBConnection, tablespace string) (bool, error)
	CreateDatabase(ctx context.Context, conn DBConnection, dbName, owner, tablespace string) error

	LanguageExists(ctx context.Context, conn DBConnection, language string) (bool, error)
	CreateLanguage(ctx context.Context, conn DBConnection, language string) error

	// TerminateConnections terminates all other sessions on dbName.
	TerminateConnections(ctx context.Context, conn DBConnection, dbName string) error
	DropDatabase(ctx context.Context, conn DBConnection, dbName string) error

	// DropOwned removes every object owned by owner in the connected database.
	DropOwned(ctx context.Context, conn DBConnection, owner string) error
}
