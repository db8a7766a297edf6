package session

import (
	"net/http"

	dto "github.com/dropDatabas3/ridepass/internal/http/dto/session"
	"github.com/dropDatabas3/ridepass/internal/http/errors"
	mw "github.com/dropDatabas3/ridepass/internal/http/middlewares"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/session"
	"github.com/dropDatabas3/ridepass/internal/principal"
)

// LogoutController maneja POST /api/auth/{user,captains}/logout.
type LogoutController struct {
	service    svc.LogoutService
	cookieName string
}

func NewLogoutController(service svc.LogoutService, cookieName string) *LogoutController {
	if cookieName == "" {
		cookieName = mw.DefaultCookieName
	}
	return &LogoutController{service: service, cookieName: cookieName}
}

// Logout revoca el token presentado (cookie o Bearer) y limpia la cookie.
// Responde 200 aunque no haya token.
func (c *LogoutController) Logout(kind principal.Kind) http.HandlerFunc {
	msg := "Logged out successfully"
	if kind == principal.KindDriver {
		msg = "Captain logged out successfully!"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c.service.Logout(r.Context(), mw.ExtractToken(r, c.cookieName))
		http.SetCookie(w, c.service.BuildClearCookie())
		w.Header().Set("Cache-Control", "no-store")
		errors.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Message: msg})
	}
}
