package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgfleet/internal/db"
	"github.com/vvka-141/pgfleet/internal/db/manager"
	"github.com/vvka-141/pgfleet/internal/engine"
	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/services"
	"github.com/vvka-141/pgfleet/internal/ui"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// approvalMode selects how drop approval is obtained.
type approvalMode int

const (
	approvalNone approvalMode = iota
	approvalForced
	approvalPrompt
)

// deniedApprover refuses every drop. Used when no human can answer.
type deniedApprover struct{}

func (deniedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	return false, fmt.Errorf("%w: cannot prompt for '%s' in non-interactive mode, use --force", pgfleet.ErrApprovalDenied, dbName)
}

// interactive is swapped in tests.
var interactive = ui.IsInteractive

func newApprover(mode approvalMode, verbose bool) pgfleet.Approver {
	switch mode {
	case approvalForced:
		return ui.NewForcedApprover(verbose)
	case approvalPrompt:
		if interactive() {
			return ui.NewInteractiveApprover(verbose)
		}
	}
	return deniedApprover{}
}

// run resolves settings, opens the workspace and hands a Service to fn.
// A nil report skips the summary.
func run(cmd *cobra.Command, flags *globalFlags, mode approvalMode, fn func(ctx context.Context, svc *services.Service) (*services.Report, error)) error {
	settings, err := flags.settings(cmd)
	if err != nil {
		return err
	}
	overrides, err := flags.overrides(settings)
	if err != nil {
		return err
	}

	options, err := pgfleet.ParseOptions(settings.Options)
	if err != nil {
		return err
	}

	runID := services.NewRunID()
	verbose := settings.Verbose || options.Has(pgfleet.OptionVerbose)
	logger := logging.NewTo(cmd.ErrOrStderr(), settings.LogFormat, runID, verbose)
	logger.Verbose("run %s: %s", runID, settings)

	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
	defer cancel()

	ws, err := services.Open(ctx, services.OpenRequest{
		RunID:     runID,
		Settings:  settings,
		Overrides: overrides,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	svc := services.NewService(
		ws,
		engine.NewInspector(logger),
		db.Factory(logger),
		manager.New(ws.Loader),
		newApprover(mode, verbose),
		services.WithOutput(cmd.OutOrStdout()),
	)

	report, err := fn(ctx, svc)
	if err != nil || report == nil {
		return err
	}
	summarize(logger, *report)
	return nil
}

// summarize logs the outcome of a report. Failures of individual targets
// are already logged per target and never fail the command.
func summarize(logger pgfleet.Logger, report services.Report) {
	if report.OK() {
		logger.Info("%s: %d target(s) succeeded", report.Operation, len(report.Succeeded))
		return
	}
	logger.Warn("%s: %d succeeded, %d failed (%s)", report.Operation,
		len(report.Succeeded), len(report.Failed), strings.Join(report.Failed, ", "))
}
