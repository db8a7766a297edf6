// Package audit emite eventos de auditoría como logs estructurados bajo el
// logger "audit". Un sink externo puede filtrar por ese nombre.
package audit

import (
	"context"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Event nombre estable del evento.
type Event string

const (
	LoginSucceeded    Event = "auth.login.succeeded"
	LoginFailed       Event = "auth.login.failed"
	Logout            Event = "auth.logout"
	AccountCreated    Event = "account.created"
	AccountDeleted    Event = "account.deleted"
	AdminBootstrapped Event = "account.admin_bootstrapped"
)

// Log escribe el evento con el logger del contexto.
func Log(ctx context.Context, ev Event, fields ...logger.Field) {
	fields = append(fields, logger.String("event", string(ev)))
	logger.From(ctx).Named("audit").Info(string(ev), fields...)
}
