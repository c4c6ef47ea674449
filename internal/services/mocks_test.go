package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Verbose(string, ...interface{}) {}
func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Error(string, ...interface{}) {}

type mockDBConnection struct {
	cfg    pgfleet.TargetConfig
	closed bool
}

func (m *mockDBConnection) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (m *mockDBConnection) QueryRow(context.Context, string, ...any) pgfleet.Row { return nil }
func (m *mockDBConnection) Acquire(context.Context) (pgfleet.PooledConnection, error) {
	return nil, nil
}
func (m *mockDBConnection) Close() { m.closed = true }

type mockConnector struct {
	conn *mockDBConnection
	err  error
}

func (m *mockConnector) Connect(context.Context) (pgfleet.DBConnection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conn, nil
}

// connectorRecorder is a ConnectorFactory that records every requested
// identity. Connections to a URL listed in failURLs fail.
type connectorRecorder struct {
	configs  []pgfleet.TargetConfig
	conns    []*mockDBConnection
	failURLs map[string]bool
}

func (r *connectorRecorder) factory(cfg pgfleet.TargetConfig) (pgfleet.Connector, error) {
	r.configs = append(r.configs, cfg)
	if r.failURLs[cfg.URL] {
		return &mockConnector{err: fmt.Errorf("dial %s: %w", cfg.URL, pgfleet.ErrConnectionFailed)}, nil
	}
	conn := &mockDBConnection{cfg: cfg}
	r.conns = append(r.conns, conn)
	return &mockConnector{conn: conn}, nil
}

// mockDatabaseManager records calls as "method(args)" strings.
type mockDatabaseManager struct {
	calls       []string
	users       map[string]bool
	databases   map[string]bool
	tablespaces map[string]bool
	languages   map[string]bool
	dropErr     error
}

func newMockDatabaseManager() *mockDatabaseManager {
	return &mockDatabaseManager{
		users:       map[string]bool{},
		databases:   map[string]bool{},
		tablespaces: map[string]bool{},
		languages:   map[string]bool{},
	}
}

func (m *mockDatabaseManager) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *mockDatabaseManager) UserExists(_ context.Context, _ pgfleet.DBConnection, user string) (bool, error) {
	m.record("UserExists(%s)", user)
	return m.users[user], nil
}

func (m *mockDatabaseManager) CreateUser(_ context.Context, _ pgfleet.DBConnection, user, password string) error {
	m.record("CreateUser(%s,%s)", user, password)
	m.users[user] = true
	return nil
}

func (m *mockDatabaseManager) DatabaseExists(_ context.Context, _ pgfleet.DBConnection, db string) (bool, error) {
	m.record("DatabaseExists(%s)", db)
	return m.databases[db], nil
}

func (m *mockDatabaseManager) TablespaceExists(_ context.Context, _ pgfleet.DBConnection, ts string) (bool, error) {
	m.record("TablespaceExists(%s)", ts)
	return m.tablespaces[ts], nil
}

func (m *mockDatabaseManager) CreateDatabase(_ context.Context, _ pgfleet.DBConnection, db, owner, ts string) error {
	m.record("CreateDatabase(%s,%s,%s)", db, owner, ts)
	m.databases[db] = true
	return nil
}

func (m *mockDatabaseManager) LanguageExists(_ context.Context, _ pgfleet.DBConnection, lang string) (bool, error) {
	m.record("LanguageExists(%s)", lang)
	return m.languages[lang], nil
}

func (m *mockDatabaseManager) CreateLanguage(_ context.Context, _ pgfleet.DBConnection, lang string) error {
	m.record("CreateLanguage(%s)", lang)
	return nil
}

func (m *mockDatabaseManager) TerminateConnections(_ context.Context, _ pgfleet.DBConnection, db string) error {
	m.record("TerminateConnections(%s)", db)
	return nil
}

func (m *mockDatabaseManager) DropDatabase(_ context.Context, _ pgfleet.DBConnection, db string) error {
	m.record("DropDatabase(%s)", db)
	return m.dropErr
}

func (m *mockDatabaseManager) DropOwned(_ context.Context, _ pgfleet.DBConnection, owner string) error {
	m.record("DropOwned(%s)", owner)
	return nil
}

type mockApprover struct {
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, dbName string) (bool, error) {
	m.asked = append(m.asked, dbName)
	return m.approved, m.err
}

// mockEngine records requests. Targets listed in failTargets fail.
type mockEngine struct {
	inits       []pgfleet.InitRequest
	migrations  []pgfleet.MigrateRequest
	inspected   []pgfleet.InspectRequest
	failTargets map[string]bool
}

func (m *mockEngine) fail(target string) error {
	if m.failTargets[target] {
		return fmt.Errorf("engine failure on %s: %w", target, pgfleet.ErrExecutionFailed)
	}
	return nil
}

func (m *mockEngine) Init(_ context.Context, req pgfleet.InitRequest) error {
	m.inits = append(m.inits, req)
	return m.fail(req.Target)
}

func (m *mockEngine) Migrate(_ context.Context, req pgfleet.MigrateRequest) error {
	m.migrations = append(m.migrations, req)
	return m.fail(req.Target)
}

func (m *mockEngine) Status(_ context.Context, req pgfleet.InspectRequest) ([]pgfleet.StatusResult, error) {
	m.inspected = append(m.inspected, req)
	if err := m.fail(req.Target); err != nil {
		return nil, err
	}
	out := make([]pgfleet.StatusResult, 0, len(req.Units))
	for _, u := range req.Units {
		out = append(out, pgfleet.StatusResult{Unit: u, State: "AVAILABLE", CurrentVersion: -1})
	}
	return out, nil
}

func (m *mockEngine) History(_ context.Context, req pgfleet.InspectRequest) ([]pgfleet.HistoryRecord, error) {
	m.inspected = append(m.inspected, req)
	return nil, m.fail(req.Target)
}

func (m *mockEngine) Validate(_ context.Context, req pgfleet.InspectRequest) ([]pgfleet.ValidationResult, error) {
	m.inspected = append(m.inspected, req)
	if err := m.fail(req.Target); err != nil {
		return nil, err
	}
	out := make([]pgfleet.ValidationResult, 0, len(req.Units))
	for _, u := range req.Units {
		out = append(out, pgfleet.ValidationResult{Unit: u, State: "VALID"})
	}
	return out, nil
}
