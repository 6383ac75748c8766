package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

// systemScope marks the request as targeting the system scope.
func (h *Handlers) systemScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := domain.WithScope(r.Context(), domain.SystemScope())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// workspaceScope resolves the workspace id from the URL path — the only
// accepted source for workspace ids — and stores the full scope context.
func (h *Handlers) workspaceScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		if !ok {
			writeUnauthenticated(w)
			return
		}
		scope, err := h.scope.Resolve(r.Context(), p.ID, service.ScopeRequest{
			WorkspaceID: chi.URLParam(r, "workspaceID"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := domain.WithScope(r.Context(), scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionScope resolves the organization from the principal's session
// selection — the only accepted source for organization ids.
func (h *Handlers) sessionScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		if !ok {
			writeUnauthenticated(w)
			return
		}
		scope, err := h.scope.Resolve(r.Context(), p.ID, service.ScopeRequest{})
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := domain.WithScope(r.Context(), scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route group on an administrative role in the resolved
// scope. A denial produces the uniform 403; the internal reason goes to the
// audit log only.
func (h *Handlers) requireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				writeUnauthenticated(w)
				return
			}
			scope, ok := domain.ScopeFromContext(r.Context())
			if !ok {
				writeError(w, domain.ErrScopeNotFound("no scope resolved for this route"))
				return
			}
			decision, err := h.authz.AuthorizeAdmin(r.Context(), p.ID, scope, role)
			if err != nil {
				writeError(w, err)
				return
			}
			if !decision.Allowed {
				writeForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireMembership gates a route group on plain membership of the resolved
// scope. System scope requires any system role above none.
func (h *Handlers) requireMembership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		if !ok {
			writeUnauthenticated(w)
			return
		}
		scope, ok := domain.ScopeFromContext(r.Context())
		if !ok {
			writeError(w, domain.ErrScopeNotFound("no scope resolved for this route"))
			return
		}

		role := p.SystemRole
		if scope.Kind != domain.ScopeSystem {
			var err error
			role, err = h.members.RoleOf(r.Context(), p.ID, scope.Kind, scope.TargetID())
			if err != nil {
				writeError(w, err)
				return
			}
		}
		if !role.IsMember() {
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
