package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	CyclesTotal.WithLabelValues(ResultOK).Inc()
	SignalsTotal.WithLabelValues("BUY").Inc()
	Subscribers.Set(3)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `signal_bot_cycles_total{result="ok"}`)
	assert.Contains(t, string(body), `signal_bot_signals_total{signal="BUY"}`)
	assert.Contains(t, string(body), "signal_bot_subscribers 3")
}

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(InstrumentErrorsTotal)
	InstrumentErrorsTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(InstrumentErrorsTotal))
}
