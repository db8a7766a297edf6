// Package account contiene los controllers de registro, perfil y admin.
package account

import svc "github.com/dropDatabas3/ridepass/internal/http/services/account"

// Controllers agrupa los controllers del dominio account.
type Controllers struct {
	Register *RegisterController
	Profile  *ProfileController
	Admin    *AdminController
}

func NewControllers(s svc.AccountService) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s),
		Profile:  NewProfileController(s),
		Admin:    NewAdminController(s),
	}
}
