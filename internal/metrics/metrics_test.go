package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestRegisterRevocationSize_ReplacesPrevious(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, RegisterRevocationSize(reg, func() float64 { return 7 }))
	require.NoError(t, RegisterRevocationSize(reg, func() float64 { return 3 }))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "ridepass_revocation_entries" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, 3.0, mf.GetMetric()[0].GetGauge().GetValue())
	}
	assert.True(t, found, "revocation gauge exported")
	n, err := testutil.GatherAndCount(reg, "ridepass_revocation_entries")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
