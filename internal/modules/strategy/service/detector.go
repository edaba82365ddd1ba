package service

import "signal_bot/internal/models"

// Detector turns one EMA sample into Hold/Buy/Sell, keeping its own state
// between calls. One instance per instrument.
type Detector interface {
	Update(sample models.EmaSample) models.Signal
	State() DetectorState
	Name() string
}

// DetectorState is the hysteresis state shared by both detector variants.
// TimeInZone resets to 1 on a zone change and only grows while the zone holds.
// LastEmitted changes only on an actual Buy/Sell; empty means nothing emitted yet.
type DetectorState struct {
	Zone        models.Zone
	TimeInZone  uint
	LastEmitted models.Signal
}

func classify(pct, threshold float64) models.Zone {
	switch {
	case pct > threshold:
		return models.ZoneAbove
	case pct < -threshold:
		return models.ZoneBelow
	default:
		return models.ZoneBetween
	}
}

func (s *DetectorState) advance(zone models.Zone) {
	if zone != s.Zone {
		s.Zone = zone
		s.TimeInZone = 1
		return
	}
	s.TimeInZone++
}

func (s *DetectorState) emit(periods uint) models.Signal {
	var want models.Signal
	switch s.Zone {
	case models.ZoneAbove:
		want = models.SignalBuy
	case models.ZoneBelow:
		want = models.SignalSell
	default:
		return models.SignalHold
	}
	if s.TimeInZone < periods || s.LastEmitted == want {
		return models.SignalHold
	}
	s.LastEmitted = want
	return want
}

func gapPct(short, long float64) float64 {
	return (short - long) / long * 100
}
