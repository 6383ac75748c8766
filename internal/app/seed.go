package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tenantcore/internal/domain"
)

// SeedFile is the YAML bootstrap format. A fresh deployment has no principals
// and therefore no way to authenticate, so the first operator, identity links,
// and tenants come from a seed file applied by the admin CLI.
type SeedFile struct {
	Principals []struct {
		Name       string `yaml:"name"`
		SystemRole string `yaml:"system_role"`
		Identities []struct {
			Issuer  string `yaml:"issuer"`
			Subject string `yaml:"subject"`
		} `yaml:"identities"`
	} `yaml:"principals"`

	Organizations []struct {
		Name       string `yaml:"name"`
		Workspaces []struct {
			Name    string `yaml:"name"`
			Members []struct {
				Principal string `yaml:"principal"` // principal name
				Role      string `yaml:"role"`
			} `yaml:"members"`
		} `yaml:"workspaces"`
		Members []struct {
			Principal string `yaml:"principal"`
			Role      string `yaml:"role"`
		} `yaml:"members"`
	} `yaml:"organizations"`

	Modules []struct {
		ID           string          `yaml:"id"`
		Installed    bool            `yaml:"installed"`
		Enabled      bool            `yaml:"enabled"`
		Config       map[string]any  `yaml:"config"`
		FeatureFlags map[string]bool `yaml:"feature_flags"`
	} `yaml:"modules"`
}

// Seed applies a seed file through the regular services, so every validation
// rule holds for seeded data too.
func (a *App) Seed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	// Principals first; organizations reference them by name.
	byName := make(map[string]string, len(seed.Principals))
	for _, sp := range seed.Principals {
		p, err := a.Services.Principals.Create(ctx, &domain.CreatePrincipalRequest{
			Name:       sp.Name,
			SystemRole: domain.Role(sp.SystemRole),
		})
		if err != nil {
			return fmt.Errorf("seed principal %q: %w", sp.Name, err)
		}
		byName[sp.Name] = p.ID
		for _, id := range sp.Identities {
			if _, err := a.Services.Principals.LinkIdentity(ctx, &domain.LinkIdentityRequest{
				PrincipalID: p.ID,
				Issuer:      id.Issuer,
				Subject:     id.Subject,
			}); err != nil {
				return fmt.Errorf("seed identity link for %q: %w", sp.Name, err)
			}
		}
	}

	for _, so := range seed.Organizations {
		org, err := a.Services.ScopeAdmin.CreateOrganization(ctx, &domain.CreateOrganizationRequest{Name: so.Name})
		if err != nil {
			return fmt.Errorf("seed organization %q: %w", so.Name, err)
		}
		for _, m := range so.Members {
			if err := a.seedMember(ctx, byName, m.Principal, domain.ScopeOrganization, org.ID, m.Role); err != nil {
				return err
			}
		}
		for _, sw := range so.Workspaces {
			ws, err := a.Services.ScopeAdmin.CreateWorkspace(ctx, &domain.CreateWorkspaceRequest{
				OrgID: org.ID,
				Name:  sw.Name,
			})
			if err != nil {
				return fmt.Errorf("seed workspace %q: %w", sw.Name, err)
			}
			for _, m := range sw.Members {
				if err := a.seedMember(ctx, byName, m.Principal, domain.ScopeWorkspace, ws.ID, m.Role); err != nil {
					return err
				}
			}
		}
	}

	for _, sm := range seed.Modules {
		if err := a.Services.ModuleAdmin.UpsertSystemLayer(ctx, &domain.UpsertModuleSystemLayerRequest{
			ModuleID:     sm.ID,
			Installed:    sm.Installed,
			Enabled:      sm.Enabled,
			Config:       sm.Config,
			FeatureFlags: sm.FeatureFlags,
		}); err != nil {
			return fmt.Errorf("seed module %q: %w", sm.ID, err)
		}
	}
	return nil
}

func (a *App) seedMember(ctx context.Context, byName map[string]string, principal string, kind domain.ScopeKind, scopeID, role string) error {
	pid, ok := byName[principal]
	if !ok {
		return fmt.Errorf("seed member: unknown principal %q", principal)
	}
	if _, err := a.Services.Members.Add(ctx, &domain.AddMembershipRequest{
		PrincipalID: pid,
		ScopeKind:   kind,
		ScopeID:     scopeID,
		Role:        domain.Role(role),
	}); err != nil {
		return fmt.Errorf("seed member %q in %s %s: %w", principal, kind, scopeID, err)
	}
	return nil
}
