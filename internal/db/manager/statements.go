package manager

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgfleet/internal/resources"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// Statement names, one file each under classpath:/sql/.
const (
	StmtDetectUser           = "detect_user"
	StmtCreateUser           = "create_user"
	StmtDetectDatabase       = "detect_database"
	StmtDetectTablespace     = "detect_tablespace"
	StmtCreateDatabase       = "create_database"
	StmtDetectLanguage       = "detect_language"
	StmtCreateLanguage       = "create_language"
	StmtTerminateConnections = "terminate_connections"
	StmtDropDatabase         = "drop_database"
	StmtDropOwned            = "drop_owned"
)

var templateFuncs = template.FuncMap{
	"ident":   quoteIdent,
	"literal": quoteLiteral,
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// render loads statement name and executes it with data.
func (m *Manager) render(ctx context.Context, name string, data any) (string, error) {
	uri := pgfleet.ContentURI(resources.StatementURI(name))
	text, found, err := m.loader.Load(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("load statement %s: %w", name, err)
	}
	if !found {
		return "", fmt.Errorf("statement %s not found at %s: %w", name, uri, pgfleet.ErrExecutionFailed)
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse statement %s: %v: %w", name, err, pgfleet.ErrExecutionFailed)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render statement %s: %v: %w", name, err, pgfleet.ErrExecutionFailed)
	}
	return strings.TrimSpace(sb.String()), nil
}
