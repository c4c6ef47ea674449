package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgfleet/internal/services"
)

// allTargets is the default selection of the inspection commands.
const allTargets = "all"

func reported(report services.Report, err error) (*services.Report, error) {
	if err != nil {
		return nil, err
	}
	return &report, nil
}

type targetOp func(svc *services.Service, ctx context.Context, targets string) (services.Report, error)

func newTargetCmd(flags *globalFlags, use, short, long string, mode approvalMode, op targetOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <targets>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, mode, func(ctx context.Context, svc *services.Service) (*services.Report, error) {
				return reported(op(svc, ctx, args[0]))
			})
		},
	}
}

func newInspectCmd(flags *globalFlags, use, short string, op targetOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [targets]",
		Short: short,
		Long: short + `.

Targets is a comma-separated list of target names, or "all" (the default).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := allTargets
			if len(args) == 1 {
				targets = args[0]
			}
			return run(cmd, flags, approvalNone, func(ctx context.Context, svc *services.Service) (*services.Report, error) {
				return reported(op(svc, ctx, targets))
			})
		},
	}
}

func newCreateCmd(flags *globalFlags) *cobra.Command {
	return newTargetCmd(flags, "create", "Create the databases of the given targets",
		`Create the owner role, the database and the plpgsql language of each
target, then initialize the migration engine in it. Existing objects are
reused. Requires pgfleet.permission.create-db in the manifest.`,
		approvalNone, (*services.Service).Create)
}

func newDropCmd(flags *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "drop <targets>",
		Short: "Drop the databases of the given targets",
		Long: `Terminate open sessions and drop the database of each target.

Every database needs approval. Interactive sessions are prompted. Use --force
to approve after a countdown, which is required when no terminal is attached.
Requires pgfleet.permission.drop-db in the manifest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := approvalPrompt
			if force {
				mode = approvalForced
			}
			return run(cmd, flags, mode, func(ctx context.Context, svc *services.Service) (*services.Report, error) {
				return reported(svc.Drop(ctx, args[0]))
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Approve every drop after a countdown instead of prompting")
	return cmd
}

func newCleanCmd(flags *globalFlags) *cobra.Command {
	return newTargetCmd(flags, "clean", "Drop everything owned by the target owners",
		`Drop all objects owned by the owner role of each target, keeping the
database itself. Requires pgfleet.permission.clean-db in the manifest.`,
		approvalNone, (*services.Service).Clean)
}

func newUpgradeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <migrations>",
		Short: "Migrate targets to the requested unit versions",
		Long: `Migrate each selected target. Migrations is "all" or a comma-separated
list of target names, each optionally followed by "=" and a "/"-separated
list of units with an optional "@version":

  pgfleet upgrade orders
  pgfleet upgrade orders=users@3/audit,billing

Units catalogued with the R marker run under the root identity first.
Every plan is resolved and validated before any database is touched.
Requires pgfleet.permission.upgrade-db in the manifest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, approvalNone, func(ctx context.Context, svc *services.Service) (*services.Report, error) {
				return reported(svc.Upgrade(ctx, args[0]))
			})
		},
	}
}

func newPlanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <migrations>",
		Short: "Show the migration plans without connecting to any database",
		Long: `Resolve the given migrations exactly like upgrade does and print the
per-target plans. No database is contacted and no permission is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, approvalNone, func(ctx context.Context, svc *services.Service) (*services.Report, error) {
				return nil, svc.Plan(ctx, args[0])
			})
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return newInspectCmd(flags, "status", "Show the current version of each catalogued unit", (*services.Service).Status)
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	return newInspectCmd(flags, "history", "Show the applied migration history of the targets", (*services.Service).History)
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return newInspectCmd(flags, "validate", "Check applied migrations against the available scripts", (*services.Service).Validate)
}
