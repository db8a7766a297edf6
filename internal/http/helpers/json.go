// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
)

const maxJSONBody = 32 << 10 // 32KB

// ReadJSON decodifica el body en dst. Los campos desconocidos se ignoran.
// El error devuelto ya es un *errors.AppError listo para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if ct != "" && !strings.Contains(ct, "application/json") {
		return errors.ErrBadRequest.WithMessage("Content-Type must be application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.ErrBodyTooLarge
		case stderrors.Is(err, io.EOF):
			return errors.ErrInvalidJSON.WithMessage("The request body is empty.")
		default:
			return errors.ErrInvalidJSON.WithCause(err)
		}
	}
	if dec.More() {
		return errors.ErrInvalidJSON.WithMessage("Unexpected data after the JSON body.")
	}
	return nil
}
