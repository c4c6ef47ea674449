// Package cli implements the pgfleet command line.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

const rootLong = `pgfleet manages a fleet of PostgreSQL databases described by a manifest.

It resolves which databases to touch, under which identity, and which
migration units to bring to which version, then hands the resolved plans to
the migration engine. Manifests and migration content are loaded from
file:, classpath:, jar: and http(s): locations.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, manifest, target or plan
  11 - Database connection failed
  12 - User denied drop approval
  13 - SQL or engine execution failed
  14 - Manifest not found
  15 - Operation not permitted by the manifest`

// Execute runs the root command with the process arguments.
func Execute() error {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "pgfleet",
		Short:         "Manifest-driven PostgreSQL fleet management",
		Long:          rootLong,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags.register(root)

	root.AddCommand(
		newInitCmd(flags),
		newCreateCmd(flags),
		newDropCmd(flags),
		newCleanCmd(flags),
		newUpgradeCmd(flags),
		newPlanCmd(flags),
		newStatusCmd(flags),
		newHistoryCmd(flags),
		newValidateCmd(flags),
		newVersionCmd(),
	)
	return root
}
