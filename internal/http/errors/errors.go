package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Body es la forma serializada de un error.
type Body struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// WriteError escribe err como JSON. Los 5xx se loguean con la causa.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	path := ""
	if r != nil {
		path = r.URL.Path
		if appErr.HTTPStatus >= 500 {
			logger.From(r.Context()).Error("request failed",
				logger.Layer("http"),
				logger.String("code", appErr.Code),
				logger.Err(appErr.Err))
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(Body{
		Status:  appErr.HTTPStatus,
		Error:   http.StatusText(appErr.HTTPStatus),
		Message: appErr.Message,
		Path:    path,
	})
}

// WriteJSON escribe v con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
