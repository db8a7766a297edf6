package account

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	"github.com/dropDatabas3/ridepass/internal/http/errors"
	mw "github.com/dropDatabas3/ridepass/internal/http/middlewares"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/account"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// AdminController maneja la administración de riders (ROLE_ADMIN).
type AdminController struct {
	service svc.AccountService
}

func NewAdminController(service svc.AccountService) *AdminController {
	return &AdminController{service: service}
}

// ListRiders GET /api/auth/user?limit=&offset=
func (c *AdminController) ListRiders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ListFilter{}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errors.WriteError(w, r, errors.ErrBadRequest.WithMessage("limit must be a number"))
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errors.WriteError(w, r, errors.ErrBadRequest.WithMessage("offset must be a number"))
			return
		}
		filter.Offset = n
	}
	filter = filter.Normalize()

	users, err := c.service.ListRiders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(users) == 0 && filter.Offset == 0 {
		errors.WriteError(w, r, errors.ErrNotFound.WithMessage("Currently there is no registered user"))
		return
	}
	errors.WriteJSON(w, http.StatusOK, dto.ListResponse{Users: users, Limit: filter.Limit, Offset: filter.Offset})
}

// DeleteRider DELETE /api/auth/user/{email}
func (c *AdminController) DeleteRider(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		errors.WriteError(w, r, errors.ErrBadRequest.WithMessage("email is required"))
		return
	}
	if err := c.service.DeleteRider(r.Context(), email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if id, ok := mw.CurrentIdentity(r.Context()); ok {
		logger.From(r.Context()).Info("admin deleted rider",
			logger.Component("admin"), logger.Subject(id.Subject), logger.String("target", email))
	}
	errors.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
