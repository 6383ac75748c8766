package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
)

type membershipResponse struct {
	PrincipalID string `json:"principal_id"`
	ScopeKind   string `json:"scope_kind"`
	ScopeID     string `json:"scope_id"`
	Role        string `json:"role"`
}

func toMembershipList(memberships []domain.Membership) []membershipResponse {
	items := make([]membershipResponse, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, membershipResponse{
			PrincipalID: m.PrincipalID,
			ScopeKind:   string(m.ScopeKind),
			ScopeID:     m.ScopeID,
			Role:        string(m.Role),
		})
	}
	return items
}

// addMember adds a principal to the scope the route resolved to.
func (h *Handlers) addMember(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	var body struct {
		PrincipalID string `json:"principal_id"`
		Role        string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.members.Add(r.Context(), &domain.AddMembershipRequest{
		PrincipalID: body.PrincipalID,
		ScopeKind:   scope.Kind,
		ScopeID:     scope.TargetID(),
		Role:        domain.Role(body.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membershipResponse{
		PrincipalID: m.PrincipalID,
		ScopeKind:   string(m.ScopeKind),
		ScopeID:     m.ScopeID,
		Role:        string(m.Role),
	})
}

func (h *Handlers) setMemberRole(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.members.SetRole(r.Context(), chi.URLParam(r, "principalID"), scope.Kind, scope.TargetID(), domain.Role(body.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) removeMember(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	err := h.members.Remove(r.Context(), chi.URLParam(r, "principalID"), scope.Kind, scope.TargetID())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listMembers(w http.ResponseWriter, r *http.Request) {
	scope, _ := domain.ScopeFromContext(r.Context())
	page := pageFromQuery(r)
	memberships, total, err := h.members.ListForScope(r.Context(), scope.Kind, scope.TargetID(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"members":         toMembershipList(memberships),
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}
