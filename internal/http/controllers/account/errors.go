package account

import (
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/account"
)

// writeServiceError traduce los errores del service de cuentas.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *svc.ValidationError
	switch {
	case stderrors.As(err, &ve):
		errors.WriteError(w, r, errors.ErrValidation.WithMessage(ve.Message))
	case stderrors.Is(err, svc.ErrMarkup):
		errors.WriteError(w, r, errors.ErrBadRequest.WithMessage("Invalid input: potentially malicious content detected"))
	case stderrors.Is(err, svc.ErrAlreadyExists):
		errors.WriteError(w, r, errors.ErrAlreadyExists)
	case stderrors.Is(err, svc.ErrNotFound):
		errors.WriteError(w, r, errors.ErrNotFound)
	default:
		errors.WriteError(w, r, errors.ErrInternalServerError.WithCause(err))
	}
}
