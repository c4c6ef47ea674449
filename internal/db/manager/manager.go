package manager

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Manager implements pgfleet.DatabaseManager with named statements.
type Manager struct {
	loader pgfleet.ContentLoader
}

// New creates a Manager loading its statements through loader.
func New(loader pgfleet.ContentLoader) *Manager {
	return &Manager{loader: loader}
}

func (m *Manager) exists(ctx context.Context, conn pgfleet.DBConnection, stmt, name string) (bool, error) {
	query, err := m.render(ctx, stmt, nil)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := conn.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s %q: %w: %w", stmt, name, pgfleet.ErrExecutionFailed, err)
	}
	return exists, nil
}

func (m *Manager) exec(ctx context.Context, conn pgfleet.DBConnection, stmt string, data any, args ...any) error {
	query, err := m.render(ctx, stmt, data)
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w: %w", stmt, pgfleet.ErrExecutionFailed, err)
	}
	return nil
}

// execDedicated runs a statement that must not run inside a transaction
// block on a dedicated connection.
func (m *Manager) execDedicated(ctx context.Context, conn pgfleet.DBConnection, stmt string, data any) error {
	query, err := m.render(ctx, stmt, data)
	if err != nil {
		return err
	}
	pooled, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire connection: %w: %w", stmt, pgfleet.ErrConnectionFailed, err)
	}
	defer pooled.Release()

	if _, err := pooled.Exec(ctx, query); err != nil {
		return fmt.Errorf("%s: %w: %w", stmt, pgfleet.ErrExecutionFailed, err)
	}
	return nil
}

func (m *Manager) UserExists(ctx context.Context, conn pgfleet.DBConnection, user string) (bool, error) {
	return m.exists(ctx, conn, StmtDetectUser, user)
}

func (m *Manager) CreateUser(ctx context.Context, conn pgfleet.DBConnection, user, password string) error {
	return m.exec(ctx, conn, StmtCreateUser, map[string]string{"User": user, "Password": password})
}

func (m *Manager) DatabaseExists(ctx context.Context, conn pgfleet.DBConnection, dbName string) (bool, error) {
	return m.exists(ctx, conn, StmtDetectDatabase, dbName)
}

func (m *Manager) TablespaceExists(ctx context.Context, conn pgfleet.DBConnection, tablespace string) (bool, error) {
	return m.exists(ctx, conn, StmtDetectTablespace, tablespace)
}

// CreateDatabase creates dbName owned by owner. An empty tablespace uses the
// server default.
func (m *Manager) CreateDatabase(ctx context.Context, conn pgfleet.DBConnection, dbName, owner, tablespace string) error {
	return m.execDedicated(ctx, conn, StmtCreateDatabase, map[string]string{
		"Database":   dbName,
		"Owner":      owner,
		"Tablespace": tablespace,
	})
}

func (m *Manager) LanguageExists(ctx context.Context, conn pgfleet.DBConnection, language string) (bool, error) {
	return m.exists(ctx, conn, StmtDetectLanguage, language)
}

func (m *Manager) CreateLanguage(ctx context.Context, conn pgfleet.DBConnection, language string) error {
	return m.exec(ctx, conn, StmtCreateLanguage, map[string]string{"Language": language})
}

func (m *Manager) TerminateConnections(ctx context.Context, conn pgfleet.DBConnection, dbName string) error {
	return m.exec(ctx, conn, StmtTerminateConnections, nil, dbName)
}

func (m *Manager) DropDatabase(ctx context.Context, conn pgfleet.DBConnection, dbName string) error {
	return m.execDedicated(ctx, conn, StmtDropDatabase, map[string]string{"Database": dbName})
}

func (m *Manager) DropOwned(ctx context.Context, conn pgfleet.DBConnection, owner string) error {
	return m.exec(ctx, conn, StmtDropOwned, map[string]string{"Owner": owner})
}

var _ pgfleet.DatabaseManager = (*Manager)(nil)
