package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_cycles_total", Help: "Scan cycles by outcome"},
		[]string{"result"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_signals_total", Help: "Buy/Sell signals emitted"},
		[]string{"signal"},
	)
	InstrumentErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signal_bot_instrument_errors_total", Help: "Instruments skipped for a cycle after a sampling error"},
	)
	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_bot_deliveries_total", Help: "Per-recipient notification deliveries"},
		[]string{"result"},
	)
	TrackedInstruments = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "signal_bot_tracked_instruments", Help: "Entries in the strategy registry"},
	)
	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "signal_bot_subscribers", Help: "Current subscriber count"},
	)
)

const (
	ResultOK        = "ok"
	ResultFailed    = "failed"
	ResultCancelled = "cancelled"
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		SignalsTotal,
		InstrumentErrorsTotal,
		DeliveriesTotal,
		TrackedInstruments,
		Subscribers,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
