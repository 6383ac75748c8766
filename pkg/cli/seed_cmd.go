package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// openApp runs migrations as part of opening the store.
			_, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Apply a YAML seed file (principals, identity links, tenants, modules)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := a.Seed(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed applied from %s\n", args[0])
			return nil
		},
	}
}
