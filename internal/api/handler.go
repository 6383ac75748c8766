// Package api exposes the tenant core over HTTP using chi.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	logger      *slog.Logger
	scope       *service.ScopeService
	authz       *service.AuthorizationService
	access      *service.ResourceAccessService
	config      *service.ModuleConfigService
	moduleAdmin *service.ModuleAdminService
	principals  *service.PrincipalService
	scopeAdmin  *service.ScopeAdminService
	members     *service.MembershipService
	sharing     *service.SharingService
	sessions    *service.SessionService
	audit       *service.AuditService
}

// Services groups the constructor arguments for Handlers.
type Services struct {
	Scope       *service.ScopeService
	Authz       *service.AuthorizationService
	Access      *service.ResourceAccessService
	Config      *service.ModuleConfigService
	ModuleAdmin *service.ModuleAdminService
	Principals  *service.PrincipalService
	ScopeAdmin  *service.ScopeAdminService
	Members     *service.MembershipService
	Sharing     *service.SharingService
	Sessions    *service.SessionService
	Audit       *service.AuditService
}

// NewHandlers creates the handler set.
func NewHandlers(logger *slog.Logger, svcs Services) *Handlers {
	return &Handlers{
		logger:      logger,
		scope:       svcs.Scope,
		authz:       svcs.Authz,
		access:      svcs.Access,
		config:      svcs.Config,
		moduleAdmin: svcs.ModuleAdmin,
		principals:  svcs.Principals,
		scopeAdmin:  svcs.ScopeAdmin,
		members:     svcs.Members,
		sharing:     svcs.Sharing,
		sessions:    svcs.Sessions,
		audit:       svcs.Audit,
	}
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// me returns the resolved principal and its memberships.
func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	memberships, err := h.members.ListForPrincipal(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"system_role": p.SystemRole,
		"memberships": toMembershipList(memberships),
	})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Code: http.StatusUnauthorized, Message: "unauthorized"})
}

// pageFromQuery parses max_results and page_token query parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	page := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.MaxResults = n
		}
	}
	return page
}
