package service

import (
	"fmt"
	"strings"

	"signal_bot/internal/models"
)

func formatSignal(ev models.SignalEvent) string {
	var head string
	switch ev.Signal {
	case models.SignalBuy:
		head = "🟢 BUY SIGNAL"
	case models.SignalSell:
		head = "🔴 SELL SIGNAL"
	default:
		head = "⚪️ HOLD POSITION"
	}

	name := ev.Ticker
	if name == "" {
		name = ev.InstrumentID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nInstrument: %s\nRecommendation: %s\n", head, name, ev.Signal)
	fmt.Fprintf(&b, "EMA %d/%d (%s): %s / %s\n", ev.ShortLength, ev.LongLength, ev.Interval, price(ev.Sample.ShortEMA), price(ev.Sample.LongEMA))
	fmt.Fprintf(&b, "Price: %s", price(ev.Sample.LastPrice))
	return b.String()
}

func price(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
