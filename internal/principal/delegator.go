package principal

import (
	"context"
	"errors"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Delegator prueba una lista ordenada de resolvers y devuelve el primer
// principal encontrado. El orden es prioridad: si un identificador existe en
// dos stores gana siempre el primero.
//
// Solo un not-found pasa al siguiente resolver. Cualquier otro error (store
// caído, rol inválido) corta la cadena: degradar a un store de menor
// prioridad podría autenticar al principal equivocado.
type Delegator struct {
	resolvers []Resolver
}

var _ Resolver = (*Delegator)(nil)

// NewDelegator arma la cadena en el orden dado.
func NewDelegator(resolvers ...Resolver) *Delegator {
	rs := make([]Resolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return &Delegator{resolvers: rs}
}

func (d *Delegator) Resolve(ctx context.Context, identifier string) (*Principal, error) {
	lastErr := ErrNotFound
	for _, r := range d.resolvers {
		p, err := r.Resolve(ctx, identifier)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			logger.From(ctx).Error("principal resolution aborted",
				logger.Component("delegator"), logger.Err(err))
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Len cantidad de resolvers en la cadena.
func (d *Delegator) Len() int { return len(d.resolvers) }
