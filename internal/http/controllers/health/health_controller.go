// Package health contiene el controller de /healthz.
package health

import (
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	svc "github.com/dropDatabas3/ridepass/internal/http/services/health"
)

// HealthController maneja GET /healthz.
type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Health responde 200 si todo está ok, 503 si algún componente falla.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	res := c.service.Check(r.Context())
	status := http.StatusOK
	if res.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	errors.WriteJSON(w, status, res)
}
