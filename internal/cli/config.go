package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print every setting after flags, BVGET_* environment variables, the .env
file and defaults have been applied. Nothing is written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(a.stdout, a.formatter.Format(a.settings.Effective()))
			return nil
		},
	}
}
