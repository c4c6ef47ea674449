package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/retry"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns bounds each target's pool. Administrative statements
	// run one at a time, so a second connection only serves lookups.
	DefaultMaxConns = 2

	// DefaultMinConns keeps no idle connections; a fleet run touches many
	// servers briefly and must not hold sessions open on them.
	DefaultMinConns = 0

	// DefaultMaxConnIdleTime releases idle connections left over from a
	// target that finished before the whole run.
	DefaultMaxConnIdleTime = 5 * time.Minute
)

// StandardConnector implements pgfleet.Connector for one identity (owner or
// root) of one target, using username/password authentication with automatic
// retry on transient failures.
//
// Thread Safety:
// A StandardConnector is immutable after construction and Connect may be
// called concurrently. Each call returns its own pool, which the caller
// closes.
type StandardConnector struct {
	config        pgfleet.TargetConfig
	retryExecutor *retry.Executor
	logger        pgfleet.Logger
}

// NewStandardConnector creates a connector for config.
// Retry behavior uses pgfleet defaults: DefaultRetryMaxAttempts retries,
// exponential backoff starting at DefaultRetryInitialDelay, max
// DefaultRetryMaxDelay. Each retry is logged at verbose level.
//
// Returns ErrUnsupportedDriver when config.Driver names a driver other than
// PostgreSQL. A nil logger discards output.
func NewStandardConnector(config pgfleet.TargetConfig, logger pgfleet.Logger) (*StandardConnector, error) {
	if err := CheckDriver(config.Driver); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	strategy := retry.NewExponentialBackoff(pgfleet.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgfleet.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgfleet.DefaultRetryMaxDelay),
	)
	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
		})

	return &StandardConnector{config: config, retryExecutor: executor, logger: logger}, nil
}

// Factory returns a ConnectorFactory producing StandardConnectors that share
// logger. Services use it to open owner and root connections per target.
//
// Example:
//
//	connectors := db.Factory(logger)
//	connector, err := connectors(resolver.RootOn("alpha"))
//	if err != nil {
//		return err
//	}
//	conn, err := connector.Connect(ctx)
func Factory(logger pgfleet.Logger) pgfleet.ConnectorFactory {
	return func(cfg pgfleet.TargetConfig) (pgfleet.Connector, error) {
		return NewStandardConnector(cfg, logger)
	}
}

func (c *StandardConnector) poolConfig() (*pgxpool.Config, error) {
	connStr, err := NormalizeURL(c.config.URL)
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection URL %s: %v: %w", Redact(c.config.URL), err, pgfleet.ErrInvalidConfig)
	}
	if c.config.User != "" {
		poolConfig.ConnConfig.User = c.config.User
		poolConfig.ConnConfig.Password = c.config.Password
	}

	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		c.logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
	return poolConfig, nil
}

// Connect establishes a connection pool and pings it, retrying transient
// failures. The returned error wraps ErrConnectionFailed with a hint naming
// the likely cause (refused, unknown host, bad password, missing database).
func (c *StandardConnector) Connect(ctx context.Context) (pgfleet.DBConnection, error) {
	poolConfig, err := c.poolConfig()
	if err != nil {
		return nil, err
	}
	host := poolConfig.ConnConfig.Host
	database := poolConfig.ConnConfig.Database
	user := poolConfig.ConnConfig.User

	var pool *pgxpool.Pool
	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, host, database, user)
	}

	c.logger.Verbose("Connected to %s/%s as %s", host, database, user)
	return NewPoolAdapter(pool), nil
}

// wrapConnectionError adds guidance to raw pgx connection errors.
func wrapConnectionError(err error, host, database, user string) error {
	errStr := strings.ToLower(err.Error())

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused by %s (is PostgreSQL running? check: pg_isready -h %s)", host, host)
	case strings.Contains(errStr, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q", host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for user %q (check the manifest password keys)", user)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist (run: pgfleet create)", database)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection to %s timed out", host)
	case strings.Contains(errStr, "too many connections"):
		hint = fmt.Sprintf("too many connections to database %q", database)
	default:
		hint = fmt.Sprintf("failed to connect to %s/%s", host, database)
	}
	return fmt.Errorf("%s: %w: %w", hint, pgfleet.ErrConnectionFailed, err)
}

var _ pgfleet.Connector = (*StandardConnector)(nil)
