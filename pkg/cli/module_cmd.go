package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"tenantcore/internal/domain"
)

func newModuleCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Manage the module registry",
	}
	cmd.AddCommand(newModuleListCmd(o))
	cmd.AddCommand(newModuleInstallCmd(o))
	return cmd
}

func newModuleListCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered modules and their system layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			modules, _, err := a.Services.ModuleAdmin.ListModules(cmd.Context(), domain.PageRequest{})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), modules)
			}
			rows := make([][]string, 0, len(modules))
			for _, m := range modules {
				rows = append(rows, []string{m.ModuleID, strconv.FormatBool(m.Installed), strconv.FormatBool(m.Enabled)})
			}
			return printTable(cmd.OutOrStdout(), []string{"module", "installed", "enabled"}, rows)
		},
	}
}

func newModuleInstallCmd(o *globalOptions) *cobra.Command {
	var enabled bool
	cmd := &cobra.Command{
		Use:   "install <module-id>",
		Short: "Register a module at the system layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			return a.Services.ModuleAdmin.UpsertSystemLayer(cmd.Context(), &domain.UpsertModuleSystemLayerRequest{
				ModuleID:  args[0],
				Installed: true,
				Enabled:   enabled,
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable the module system-wide")
	return cmd
}
