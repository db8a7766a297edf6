package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fakeTokens struct{ valid bool }

func (f fakeTokens) Issue(string) (string, time.Time, error) { return "t", time.Now(), nil }
func (f fakeTokens) Validate(string) bool                    { return f.valid }

func TestCheck_AllOK(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	res := NewHealthService(Deps{Store: ok, Revocations: ok, Tokens: fakeTokens{valid: true}, Version: "1.0"}).
		Check(context.Background())

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "1.0", res.Version)
	assert.Equal(t, map[string]string{"store": "ok", "revocation": "ok", "jwt": "ok"}, res.Components)
}

func TestCheck_Degraded(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:6379: connect: connection refused") })
	res := NewHealthService(Deps{Store: ok, Revocations: down, Tokens: fakeTokens{valid: false}}).
		Check(ctx)

	assert.Equal(t, "degraded", res.Status)
	assert.Equal(t, map[string]string{"store": "ok", "revocation": "down", "jwt": "down"}, res.Components)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.5")
	assert.NotContains(t, string(body), errSelfCheck.Error())

	// el detalle queda en el log
	failed := logs.FilterMessage("health check failed")
	require.Equal(t, 2, failed.Len())
	byCheck := map[string]any{}
	for _, e := range failed.All() {
		m := e.ContextMap()
		byCheck[m["check"].(string)] = m["error"]
	}
	assert.Equal(t, "dial tcp 10.0.0.5:6379: connect: connection refused", byCheck["revocation"])
	assert.Equal(t, errSelfCheck.Error(), byCheck["jwt"])
}
