// Package session contiene los controllers de login y logout.
package session

import (
	accsvc "github.com/dropDatabas3/ridepass/internal/http/services/account"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/session"
)

// Controllers agrupa los controllers del dominio session.
type Controllers struct {
	Login  *LoginController
	Logout *LogoutController
}

// NewControllers crea el agregador. cookieName es la cookie que lee logout.
func NewControllers(s svc.Services, accounts accsvc.AccountService, cookieName string) *Controllers {
	return &Controllers{
		Login:  NewLoginController(s.Login, accounts),
		Logout: NewLogoutController(s.Logout, cookieName),
	}
}
