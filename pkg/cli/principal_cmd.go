package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tenantcore/internal/domain"
)

func newPrincipalCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "principal",
		Short: "Manage principals and their identity links",
	}
	cmd.AddCommand(newPrincipalListCmd(o))
	cmd.AddCommand(newPrincipalCreateCmd(o))
	cmd.AddCommand(newPrincipalLinkCmd(o))
	cmd.AddCommand(newPrincipalDeactivateCmd(o))
	return cmd
}

func newPrincipalListCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List principals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			principals, _, err := a.Services.Principals.List(cmd.Context(), domain.PageRequest{})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), principals)
			}
			rows := make([][]string, 0, len(principals))
			for _, p := range principals {
				rows = append(rows, []string{p.ID, p.Name, string(p.SystemRole), strconv.FormatBool(p.Active)})
			}
			return printTable(cmd.OutOrStdout(), []string{"id", "name", "system role", "active"}, rows)
		},
	}
}

func newPrincipalCreateCmd(o *globalOptions) *cobra.Command {
	var (
		name       string
		systemRole string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.Services.Principals.Create(cmd.Context(), &domain.CreatePrincipalRequest{
				Name:       name,
				SystemRole: domain.Role(systemRole),
			})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "principal name")
	cmd.Flags().StringVar(&systemRole, "system-role", "none", "system role (none, user, admin, owner)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPrincipalLinkCmd(o *globalOptions) *cobra.Command {
	var (
		principalID string
		issuer      string
		subject     string
	)
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link an external identity (issuer, subject) to a principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			link, err := a.Services.Principals.LinkIdentity(cmd.Context(), &domain.LinkIdentityRequest{
				PrincipalID: principalID,
				Issuer:      issuer,
				Subject:     subject,
			})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), link)
			}
			fmt.Fprintln(cmd.OutOrStdout(), link.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&principalID, "principal", "", "principal id")
	cmd.Flags().StringVar(&issuer, "issuer", "", "token issuer URL")
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("issuer")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newPrincipalDeactivateCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <principal-id>",
		Short: "Deactivate a principal (memberships and grants stay in place)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Services.Principals.Deactivate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deactivated")
			return nil
		},
	}
}
