package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

// Authenticator turns a bearer token into a resolved principal on the request
// context. Token verification and identity resolution are separate failures
// on the inside, but the 401 body is uniform: callers never learn whether the
// token was bad or merely unmapped.
func Authenticator(validator TokenValidator, identity *service.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w)
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w)
				return
			}

			p, err := identity.Resolve(r.Context(), claims.Issuer, claims.Subject)
			if err != nil {
				var unavailable *domain.StoreUnavailableError
				if errors.As(err, &unavailable) {
					writeServiceUnavailable(w)
					return
				}
				writeUnauthorized(w)
				return
			}

			ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{
				ID:         p.ID,
				Name:       p.Name,
				SystemRole: p.SystemRole,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    401,
		"message": "unauthorized",
	})
}

func writeServiceUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    503,
		"message": "temporarily unavailable",
	})
}
