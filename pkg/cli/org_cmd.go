package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tenantcore/internal/domain"
)

func newOrgCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations, workspaces, and memberships",
	}
	cmd.AddCommand(newOrgListCmd(o))
	cmd.AddCommand(newOrgCreateCmd(o))
	cmd.AddCommand(newOrgWorkspacesCmd(o))
	cmd.AddCommand(newOrgAddMemberCmd(o))
	return cmd
}

func newOrgListCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			orgs, _, err := a.Services.ScopeAdmin.ListOrganizations(cmd.Context(), domain.PageRequest{})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), orgs)
			}
			rows := make([][]string, 0, len(orgs))
			for _, org := range orgs {
				rows = append(rows, []string{org.ID, org.Name})
			}
			return printTable(cmd.OutOrStdout(), []string{"id", "name"}, rows)
		},
	}
}

func newOrgCreateCmd(o *globalOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			org, err := a.Services.ScopeAdmin.CreateOrganization(cmd.Context(), &domain.CreateOrganizationRequest{Name: name})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), org)
			}
			fmt.Fprintln(cmd.OutOrStdout(), org.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "organization name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newOrgWorkspacesCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces <org-id>",
		Short: "List the workspaces of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			workspaces, _, err := a.Services.ScopeAdmin.ListWorkspaces(cmd.Context(), args[0], domain.PageRequest{})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), workspaces)
			}
			rows := make([][]string, 0, len(workspaces))
			for _, ws := range workspaces {
				rows = append(rows, []string{ws.ID, ws.Name})
			}
			return printTable(cmd.OutOrStdout(), []string{"id", "name"}, rows)
		},
	}
}

func newOrgAddMemberCmd(o *globalOptions) *cobra.Command {
	var (
		scopeKind   string
		scopeID     string
		principalID string
		role        string
	)
	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Add a principal to an organization or workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openApp(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := a.Services.Members.Add(cmd.Context(), &domain.AddMembershipRequest{
				PrincipalID: principalID,
				ScopeKind:   domain.ScopeKind(scopeKind),
				ScopeID:     scopeID,
				Role:        domain.Role(role),
			})
			if err != nil {
				return err
			}
			if o.json() {
				return printJSON(cmd.OutOrStdout(), m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s of %s %s\n", m.PrincipalID, m.Role, m.ScopeKind, m.ScopeID)
			return nil
		},
	}
	cmd.Flags().StringVar(&scopeKind, "scope-kind", "organization", "scope kind (organization, workspace)")
	cmd.Flags().StringVar(&scopeID, "scope", "", "scope id")
	cmd.Flags().StringVar(&principalID, "principal", "", "principal id")
	cmd.Flags().StringVar(&role, "role", "user", "role (user, admin, owner)")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}
