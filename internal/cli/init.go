package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/scaffold"
	"github.com/vvka-141/pgfleet/internal/ui"
)

func newInitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init <name> [dir]",
		Short: "Create a starter pgfleet project",
		Long: `Create pgfleet.yaml, an example .env, a development manifest declaring one
target called <name>, and a first migration unit. The directory defaults to
<name> and must be empty or absent.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, dir := args[0], args[0]
			if len(args) == 2 {
				dir = args[1]
			}
			logger := logging.NewTo(cmd.ErrOrStderr(), flags.logFormat, "", flags.verbose)
			created, err := scaffold.NewScaffolder(logger).CreateProject(name, dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("%s Created project %s in %s", ui.SymbolCheck, name, dir)))
			for _, f := range created {
				fmt.Fprintln(out, ui.MutedStyle.Render("  "+f))
			}
			fmt.Fprintf(out, "\nNext: cd %s && pgfleet plan %s\n", dir, name)
			return nil
		},
	}
}
