package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

const timeLayout = "2006-01-02 15:04"

// newTable builds a borderless table in the pgfleet style.
func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

func writeSection(w io.Writer, title string, headers []string, rows [][]string, empty string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	if len(rows) == 0 {
		fmt.Fprintln(w, MutedStyle.Render(empty))
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, newTable(headers, rows).String())
	fmt.Fprintln(w)
}

func versionCell(v int) string {
	if v < 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

// WriteStatus renders the status results of one target.
func WriteStatus(w io.Writer, target string, results []pgfleet.StatusResult) {
	rows := lo.Map(results, func(r pgfleet.StatusResult, _ int) []string {
		return []string{
			r.Unit,
			r.State,
			versionCell(r.CurrentVersion),
			strconv.Itoa(r.AvailableContent),
			lo.Ternary(r.MigrationPossible, "yes", "no"),
			r.Detail,
		}
	})
	writeSection(w, "Status of "+target,
		[]string{"UNIT", "STATE", "VERSION", "CONTENT", "MIGRATABLE", "DETAIL"},
		rows, "No units catalogued")
}

// WriteHistory renders the applied migrations of one target.
func WriteHistory(w io.Writer, target string, records []pgfleet.HistoryRecord) {
	rows := lo.Map(records, func(r pgfleet.HistoryRecord, _ int) []string {
		return []string{
			r.Unit,
			versionCell(r.StartVersion),
			versionCell(r.EndVersion),
			r.Type,
			r.State,
			r.Direction,
			r.User,
			lo.Ternary(r.Created.IsZero(), "-", r.Created.Format(timeLayout)),
		}
	})
	writeSection(w, "History of "+target,
		[]string{"UNIT", "FROM", "TO", "TYPE", "STATE", "DIRECTION", "USER", "CREATED"},
		rows, "No migrations recorded")
}

// WriteValidation renders the validation results of one target.
func WriteValidation(w io.Writer, target string, results []pgfleet.ValidationResult) {
	rows := lo.Map(results, func(r pgfleet.ValidationResult, _ int) []string {
		return []string{r.Unit, r.State, r.Reason}
	})
	writeSection(w, "Validation of "+target,
		[]string{"UNIT", "STATE", "REASON"},
		rows, "No units catalogued")
}

// WritePlan renders the root and owner plans of one target in execution order.
func WritePlan(w io.Writer, target string, root, owner pgfleet.Plan) {
	planRows := func(identity string, p pgfleet.Plan) [][]string {
		return lo.Map(p.Entries(), func(e pgfleet.PlanEntry, _ int) []string {
			return []string{identity, e.Unit, e.Version.String(), strconv.Itoa(e.Priority)}
		})
	}
	rows := append(planRows("root", root), planRows("owner", owner)...)
	writeSection(w, "Plan for "+target,
		[]string{"IDENTITY", "UNIT", "VERSION", "PRIORITY"},
		rows, "Nothing to migrate")
}
