package api

import (
	"net/http"
	"time"

	"tenantcore/internal/domain"
)

// selectOrganization records the caller's operating organization.
func (h *Handlers) selectOrganization(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var body struct {
		OrgID string `json:"org_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.sessions.SelectOrganization(r.Context(), p.ID, body.OrgID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getSelectedOrganization(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	orgID, err := h.sessions.ActiveOrganization(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"org_id": orgID})
}

func (h *Handlers) clearSelectedOrganization(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := h.sessions.ClearSelection(r.Context(), p.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listAudit returns audit log entries, newest first.
func (h *Handlers) listAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	q := r.URL.Query()
	if v := q.Get("principal_id"); v != "" {
		filter.PrincipalID = &v
	}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, domain.ErrValidation("since must be RFC 3339"))
			return
		}
		filter.Since = &ts
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{
			"id":           e.ID,
			"principal_id": e.PrincipalID,
			"action":       e.Action,
			"scope_kind":   e.ScopeKind,
			"scope_id":     e.ScopeID,
			"resource_id":  e.ResourceID,
			"status":       e.Status,
			"reason":       e.Reason,
			"created_at":   e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":         items,
		"total":           total,
		"next_page_token": domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	})
}
