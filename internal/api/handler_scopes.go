package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
)

func (h *Handlers) createOrganization(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	org, err := h.scopeAdmin.CreateOrganization(r.Context(), &domain.CreateOrganizationRequest{Name: body.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": org.ID, "name": org.Name, "created_at": org.CreatedAt,
	})
}

func (h *Handlers) listOrganizations(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	orgs, total, err := h.scopeAdmin.ListOrganizations(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, map[string]any{"id": o.ID, "name": o.Name, "created_at": o.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"organizations":   items,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

func (h *Handlers) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	if err := h.scopeAdmin.DeleteOrganization(r.Context(), chi.URLParam(r, "orgID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createWorkspace creates a workspace under the session-selected organization.
func (h *Handlers) createWorkspace(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ws, err := h.scopeAdmin.CreateWorkspace(r.Context(), &domain.CreateWorkspaceRequest{
		OrgID: scope.OrgID,
		Name:  body.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": ws.ID, "org_id": ws.OrgID, "name": ws.Name, "created_at": ws.CreatedAt,
	})
}

func (h *Handlers) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	page := pageFromQuery(r)
	workspaces, total, err := h.scopeAdmin.ListWorkspaces(r.Context(), scope.OrgID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(workspaces))
	for _, ws := range workspaces {
		items = append(items, map[string]any{
			"id": ws.ID, "org_id": ws.OrgID, "name": ws.Name, "created_at": ws.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workspaces":      items,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

// deleteWorkspace removes the workspace the route resolved to.
func (h *Handlers) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	if err := h.scopeAdmin.DeleteWorkspace(r.Context(), scope.WorkspaceID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
