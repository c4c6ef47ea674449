package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/pgfleet/internal/manifest"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Report summarizes one operation across its targets.
type Report struct {
	Operation manifest.Operation
	Succeeded []string
	Failed    []string
}

// OK reports whether every target succeeded.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Service runs operations against the targets of a Workspace.
// Thread-Safety: NOT safe for concurrent use.
type Service struct {
	ws         *Workspace
	engine     pgfleet.Engine
	connectors pgfleet.ConnectorFactory
	dbManager  pgfleet.DatabaseManager
	approver   pgfleet.Approver
	logger     pgfleet.Logger
	out        io.Writer
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithOutput sets where result tables are written. Defaults to stdout.
func WithOutput(w io.Writer) ServiceOption {
	return func(s *Service) { s.out = w }
}

// NewService creates a Service. Nil dependencies are programmer errors and
// panic at construction.
func NewService(
	ws *Workspace,
	engine pgfleet.Engine,
	connectors pgfleet.ConnectorFactory,
	dbManager pgfleet.DatabaseManager,
	approver pgfleet.Approver,
	opts ...ServiceOption,
) *Service {
	if ws == nil {
		panic("workspace cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if connectors == nil {
		panic("connectors cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}

	s := &Service{
		ws:         ws,
		engine:     engine,
		connectors: connectors,
		dbManager:  dbManager,
		approver:   approver,
		logger:     ws.Logger,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// forEach runs fn for every target in order. A failing target is logged and
// skipped; only cancellation stops the loop.
func (s *Service) forEach(ctx context.Context, op manifest.Operation, targets []string, fn func(ctx context.Context, target string) error) (Report, error) {
	report := Report{Operation: op}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := fn(ctx, t); err != nil {
			s.logger.Warn("%s %s: %v", op, t, err)
			report.Failed = append(report.Failed, t)
			continue
		}
		report.Succeeded = append(report.Succeeded, t)
	}
	return report, nil
}

// connect opens a connection for cfg. The caller closes it.
func (s *Service) connect(ctx context.Context, cfg pgfleet.TargetConfig) (pgfleet.DBConnection, error) {
	connector, err := s.connectors(cfg)
	if err != nil {
		return nil, fmt.Errorf("connector for %s: %w", cfg.URL, err)
	}
	return connector.Connect(ctx)
}

// withConnection runs fn on a connection for cfg and closes it on every path.
func (s *Service) withConnection(ctx context.Context, cfg pgfleet.TargetConfig, fn func(conn pgfleet.DBConnection) error) error {
	conn, err := s.connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// permittedTargets expands targets only after op is granted.
func (s *Service) permittedTargets(op manifest.Operation, expr string) ([]string, error) {
	if err := manifest.RequirePermission(s.ws.Stack, op); err != nil {
		return nil, err
	}
	return s.ws.Expander.Expand(expr)
}
