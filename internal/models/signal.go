package models

import "time"

// Signal is the outcome of one detector update.
type Signal string

const (
	SignalHold Signal = "HOLD"
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

// Actionable reports whether the signal is sent to subscribers. Hold never is.
func (s Signal) Actionable() bool {
	return s == SignalBuy || s == SignalSell
}

// Zone classifies the percentage gap between the short and long EMA.
type Zone int

const (
	ZoneBetween Zone = iota
	ZoneAbove
	ZoneBelow
)

func (z Zone) String() string {
	switch z {
	case ZoneAbove:
		return "above"
	case ZoneBelow:
		return "below"
	default:
		return "between"
	}
}

// SignalEvent is what the scanner hands to the notifier for a Buy/Sell.
type SignalEvent struct {
	InstrumentID string
	Ticker       string
	Signal       Signal
	Sample       EmaSample
	ShortLength  int
	LongLength   int
	Interval     Interval
	CreatedAt    time.Time
}
