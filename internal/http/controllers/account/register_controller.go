package account

import (
	"net/http"

	dto "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	"github.com/dropDatabas3/ridepass/internal/http/errors"
	"github.com/dropDatabas3/ridepass/internal/http/helpers"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/account"
)

// RegisterController maneja el alta de riders y drivers.
type RegisterController struct {
	service svc.AccountService
}

func NewRegisterController(service svc.AccountService) *RegisterController {
	return &RegisterController{service: service}
}

// RegisterRider POST /api/auth/user/register
func (c *RegisterController) RegisterRider(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRiderRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		errors.WriteError(w, r, err)
		return
	}
	p, err := c.service.RegisterRider(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{Message: "User Registered Successfully!", Profile: *p})
}

// RegisterDriver POST /api/auth/captains/register
func (c *RegisterController) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDriverRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		errors.WriteError(w, r, err)
		return
	}
	p, err := c.service.RegisterDriver(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{Message: "Captain registered successfully!", Profile: *p})
}
