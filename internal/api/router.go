package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tenantcore/internal/domain"
	mw "tenantcore/internal/middleware"
)

// RouterConfig holds the transport-level settings for the HTTP surface.
type RouterConfig struct {
	CORSAllowedOrigins []string
	RateLimit          *mw.RateLimitConfig // nil disables rate limiting
}

// NewRouter builds the full route tree. auth is the authentication middleware
// that resolves the bearer token to a principal; every /api/v1 route runs
// behind it.
func NewRouter(h *Handlers, auth func(http.Handler) http.Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if cfg.RateLimit != nil {
		r.Use(mw.RateLimiter(*cfg.RateLimit))
	}

	r.Get("/healthz", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth)

		r.Get("/me", h.me)

		// Session selection is the only way to pick an operating organization.
		r.Route("/session/organization", func(r chi.Router) {
			r.Get("/", h.getSelectedOrganization)
			r.Put("/", h.selectOrganization)
			r.Delete("/", h.clearSelectedOrganization)
		})

		// System scope: platform operation.
		r.Route("/system", func(r chi.Router) {
			r.Use(h.systemScope)

			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(domain.RoleAdmin))

				r.Post("/principals", h.createPrincipal)
				r.Get("/principals", h.listPrincipals)
				r.Get("/principals/{principalID}", h.getPrincipal)
				r.Post("/principals/{principalID}/deactivate", h.deactivatePrincipal)
				r.Post("/principals/{principalID}/reactivate", h.reactivatePrincipal)
				r.Post("/principals/{principalID}/identity-links", h.linkIdentity)
				r.Get("/principals/{principalID}/identity-links", h.listIdentityLinks)
				r.Delete("/identity-links", h.unlinkIdentity)

				r.Post("/organizations", h.createOrganization)
				r.Get("/organizations", h.listOrganizations)
				r.Delete("/organizations/{orgID}", h.deleteOrganization)

				r.Get("/modules", h.listModules)
				r.Get("/modules/{moduleID}", h.getModuleSystemLayer)
				r.Put("/modules/{moduleID}", h.upsertModuleSystemLayer)

				r.Get("/audit", h.listAudit)
			})

			// System role changes require the system owner.
			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(domain.RoleOwner))
				r.Put("/principals/{principalID}/system-role", h.setSystemRole)
			})
		})

		// Organization scope: target comes from the session selection.
		r.Route("/org", func(r chi.Router) {
			r.Use(h.sessionScope)

			r.Group(func(r chi.Router) {
				r.Use(h.requireMembership)
				r.Get("/workspaces", h.listWorkspaces)
				r.Get("/modules/{moduleID}/config", h.resolveModuleConfig)
				r.Get("/resources", h.listScopeResources)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(domain.RoleAdmin))
				r.Post("/workspaces", h.createWorkspace)
				r.Post("/members", h.addMember)
				r.Get("/members", h.listMembers)
				r.Put("/members/{principalID}", h.setMemberRole)
				r.Delete("/members/{principalID}", h.removeMember)
				r.Get("/modules/{moduleID}/override", h.getModuleOverride)
				r.Put("/modules/{moduleID}/override", h.upsertModuleOverride)
				r.Delete("/modules/{moduleID}/override", h.deleteModuleOverride)
			})
		})

		// Workspace scope: target comes from the URL path.
		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Use(h.workspaceScope)

			r.Group(func(r chi.Router) {
				r.Use(h.requireMembership)
				r.Get("/modules/{moduleID}/config", h.resolveModuleConfig)
				r.Get("/resources", h.listScopeResources)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(domain.RoleAdmin))
				r.Post("/members", h.addMember)
				r.Get("/members", h.listMembers)
				r.Put("/members/{principalID}", h.setMemberRole)
				r.Delete("/members/{principalID}", h.removeMember)
				r.Get("/modules/{moduleID}/override", h.getModuleOverride)
				r.Put("/modules/{moduleID}/override", h.upsertModuleOverride)
				r.Delete("/modules/{moduleID}/override", h.deleteModuleOverride)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.requireRole(domain.RoleOwner))
				r.Delete("/", h.deleteWorkspace)
			})
		})

		// Resources: per-resource evaluation, no scope middleware.
		r.Post("/resources", h.createResource)
		r.Route("/resources/{resourceID}", func(r chi.Router) {
			r.Get("/", h.getResource)
			r.Delete("/", h.deleteResource)
			r.Post("/shares", h.shareResource)
			r.Get("/shares", h.listShares)
			r.Delete("/shares/{grantID}", h.revokeShare)
		})
	})

	return r
}
