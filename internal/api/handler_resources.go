package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
)

type resourceResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ScopeKind string    `json:"scope_kind"`
	ScopeID   string    `json:"scope_id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toResourceResponse(res *domain.Resource) resourceResponse {
	return resourceResponse{
		ID:        res.ID,
		OwnerID:   res.OwnerID,
		ScopeKind: string(res.ScopeKind),
		ScopeID:   res.ScopeID,
		Kind:      res.Kind,
		Name:      res.Name,
		CreatedAt: res.CreatedAt,
	}
}

// createResource creates a resource owned by the calling principal.
func (h *Handlers) createResource(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var body struct {
		ScopeKind string `json:"scope_kind"`
		ScopeID   string `json:"scope_id"`
		Kind      string `json:"kind"`
		Name      string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.sharing.CreateResource(r.Context(), &domain.CreateResourceRequest{
		OwnerID:   p.ID,
		ScopeKind: domain.ScopeKind(body.ScopeKind),
		ScopeID:   body.ScopeID,
		Kind:      body.Kind,
		Name:      body.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResourceResponse(res))
}

// getResource returns the resource when the evaluator allows viewing it.
// Denials use the uniform 403 body regardless of the internal reason. An
// unknown resource id answers exactly like a denied one: resource ids are
// guessable, so the response must not reveal which ones exist.
func (h *Handlers) getResource(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	resourceID := chi.URLParam(r, "resourceID")
	decision, err := h.access.CanAccess(r.Context(), p.ID, resourceID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			writeForbidden(w)
			return
		}
		writeError(w, err)
		return
	}
	if !decision.Allowed {
		writeForbidden(w)
		return
	}
	res, err := h.sharing.GetResource(r.Context(), resourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceResponse(res))
}

func (h *Handlers) deleteResource(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.sharing.DeleteResource(r.Context(), p.ID, chi.URLParam(r, "resourceID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listScopeResources lists the resources of the scope the route resolved to.
func (h *Handlers) listScopeResources(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	page := pageFromQuery(r)
	resources, total, err := h.sharing.ListResources(r.Context(), scope.Kind, scope.TargetID(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]resourceResponse, 0, len(resources))
	for i := range resources {
		items = append(items, toResourceResponse(&resources[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resources":       items,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

func (h *Handlers) shareResource(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var body struct {
		Grantee          string `json:"grantee"`
		GranteeID        string `json:"grantee_id"`
		GranteeScopeKind string `json:"grantee_scope_kind"`
		Level            string `json:"level"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	g, err := h.sharing.Share(r.Context(), p.ID, &domain.CreateShareGrantRequest{
		ResourceID:       chi.URLParam(r, "resourceID"),
		Grantee:          domain.GranteeType(body.Grantee),
		GranteeID:        body.GranteeID,
		GranteeScopeKind: domain.ScopeKind(body.GranteeScopeKind),
		Level:            domain.PermissionLevel(body.Level),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         g.ID,
		"grantee":    g.Grantee,
		"grantee_id": g.GranteeID,
		"level":      g.Level,
		"created_at": g.CreatedAt,
	})
}

func (h *Handlers) listShares(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	grants, err := h.sharing.Grants(r.Context(), p.ID, chi.URLParam(r, "resourceID"))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(grants))
	for _, g := range grants {
		items = append(items, map[string]any{
			"id":         g.ID,
			"grantee":    g.Grantee,
			"grantee_id": g.GranteeID,
			"level":      g.Level,
			"created_at": g.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"grants": items})
}

func (h *Handlers) revokeShare(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	err := h.sharing.RevokeGrant(r.Context(), p.ID, chi.URLParam(r, "resourceID"), chi.URLParam(r, "grantID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
