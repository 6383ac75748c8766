package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tenantcore/internal/domain"
)

type principalResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SystemRole string    `json:"system_role"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{
		ID:         p.ID,
		Name:       p.Name,
		SystemRole: string(p.SystemRole),
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
	}
}

func (h *Handlers) createPrincipal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		SystemRole string `json:"system_role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.principals.Create(r.Context(), &domain.CreatePrincipalRequest{
		Name:       body.Name,
		SystemRole: domain.Role(body.SystemRole),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPrincipalResponse(p))
}

func (h *Handlers) getPrincipal(w http.ResponseWriter, r *http.Request) {
	p, err := h.principals.Get(r.Context(), chi.URLParam(r, "principalID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handlers) listPrincipals(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	principals, total, err := h.principals.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]principalResponse, 0, len(principals))
	for i := range principals {
		items = append(items, toPrincipalResponse(&principals[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"principals":      items,
		"total":           total,
		"next_page_token": domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

func (h *Handlers) setSystemRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SystemRole string `json:"system_role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.principals.SetSystemRole(r.Context(), chi.URLParam(r, "principalID"), domain.Role(body.SystemRole)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deactivatePrincipal(w http.ResponseWriter, r *http.Request) {
	if err := h.principals.Deactivate(r.Context(), chi.URLParam(r, "principalID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) reactivatePrincipal(w http.ResponseWriter, r *http.Request) {
	if err := h.principals.Reactivate(r.Context(), chi.URLParam(r, "principalID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) linkIdentity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Issuer  string `json:"issuer"`
		Subject string `json:"subject"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	link, err := h.principals.LinkIdentity(r.Context(), &domain.LinkIdentityRequest{
		PrincipalID: chi.URLParam(r, "principalID"),
		Issuer:      body.Issuer,
		Subject:     body.Subject,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           link.ID,
		"principal_id": link.PrincipalID,
		"issuer":       link.Issuer,
		"subject":      link.Subject,
	})
}

func (h *Handlers) unlinkIdentity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Issuer  string `json:"issuer"`
		Subject string `json:"subject"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.principals.UnlinkIdentity(r.Context(), body.Issuer, body.Subject); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listIdentityLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.principals.IdentityLinks(r.Context(), chi.URLParam(r, "principalID"))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(links))
	for _, l := range links {
		items = append(items, map[string]any{
			"id":      l.ID,
			"issuer":  l.Issuer,
			"subject": l.Subject,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": items})
}
