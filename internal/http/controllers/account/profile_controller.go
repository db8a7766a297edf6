package account

import (
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	mw "github.com/dropDatabas3/ridepass/internal/http/middlewares"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/account"
	"github.com/dropDatabas3/ridepass/internal/principal"
)

// ProfileController maneja GET /api/auth/{user,captains}/profile.
type ProfileController struct {
	service svc.AccountService
}

func NewProfileController(service svc.AccountService) *ProfileController {
	return &ProfileController{service: service}
}

// Profile devuelve el perfil del caller. Un rider en /captains/profile (o al
// revés) recibe 403.
func (c *ProfileController) Profile(kind principal.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.CurrentIdentity(r.Context())
		if !ok {
			errors.WriteError(w, r, errors.ErrUnauthorized)
			return
		}
		if id.Kind != kind {
			errors.WriteError(w, r, errors.ErrForbidden)
			return
		}
		p, err := c.service.Profile(r.Context(), kind, id.Subject)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		errors.WriteJSON(w, http.StatusOK, p)
	}
}
