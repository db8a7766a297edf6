package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	"github.com/dropDatabas3/ridepass/internal/principal"
)

// RequireIdentity responde 401 si el autenticador no adjuntó identidad.
func RequireIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentIdentity(r.Context()); !ok {
				errors.WriteError(w, r, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole responde 401 sin identidad y 403 si la identidad no tiene
// ninguno de los roles.
func RequireRole(roles ...principal.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := CurrentIdentity(r.Context())
			if !ok {
				errors.WriteError(w, r, errors.ErrUnauthorized)
				return
			}
			if !id.HasRole(roles...) {
				errors.WriteError(w, r, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
