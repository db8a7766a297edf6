package session

import (
	stderrors "errors"
	"net/http"

	dtoacc "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/session"
	"github.com/dropDatabas3/ridepass/internal/http/errors"
	"github.com/dropDatabas3/ridepass/internal/http/helpers"
	accsvc "github.com/dropDatabas3/ridepass/internal/http/services/account"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/session"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
)

// LoginController maneja POST /api/auth/{user,captains}/login.
type LoginController struct {
	service  svc.LoginService
	accounts accsvc.AccountService
}

func NewLoginController(service svc.LoginService, accounts accsvc.AccountService) *LoginController {
	return &LoginController{service: service, accounts: accounts}
}

// Login devuelve el handler para el tipo de principal. La respuesta lleva el
// perfil bajo "user" o "captain", más token y expires_at para clientes que
// usan Authorization: Bearer. El mismo token va en la cookie.
func (c *LoginController) Login(kind principal.Kind) http.HandlerFunc {
	key := responseKey(kind)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

		var req dto.LoginRequest
		if err := helpers.ReadJSON(w, r, &req); err != nil {
			errors.WriteError(w, r, err)
			return
		}

		res, err := c.service.Login(ctx, kind, req.Email, req.Password)
		if err != nil {
			if stderrors.Is(err, svc.ErrInvalidCredentials) {
				errors.WriteError(w, r, errors.ErrInvalidCredentials)
				return
			}
			errors.WriteError(w, r, errors.ErrInternalServerError.WithCause(err))
			return
		}

		profile, err := c.accounts.Profile(ctx, kind, res.Principal.Identifier)
		if err != nil {
			log.Warn("profile lookup after login failed", logger.Err(err))
			profile = &dtoacc.Profile{
				ID:    res.Principal.EntityID.String(),
				Email: res.Principal.Identifier,
				Kind:  kind.String(),
			}
			if len(res.Principal.Roles) > 0 {
				profile.Role = res.Principal.Roles[0].String()
			}
		}

		http.SetCookie(w, c.service.BuildSessionCookie(res.Token))
		w.Header().Set("Cache-Control", "no-store")
		errors.WriteJSON(w, http.StatusOK, map[string]any{
			key:          profile,
			"token":      res.Token,
			"expires_at": res.ExpiresAt.UTC(),
		})
	}
}

func responseKey(kind principal.Kind) string {
	if kind == principal.KindDriver {
		return "captain"
	}
	return "user"
}
