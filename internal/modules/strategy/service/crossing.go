package service

import "signal_bot/internal/models"

// CrossingDetector is the stricter variant: the hysteresis counter for a
// direction only starts after the short EMA has actually crossed the long one
// in that direction. The crossing is judged against the series' previous
// point when the sample carries it, otherwise against the previous sample
// this detector saw.
type CrossingDetector struct {
	thresholdPct float64
	periods      uint
	st           DetectorState

	armed    models.Signal
	prevDiff float64
	hasPrev  bool
}

func NewCrossingDetector(thresholdPct float64, periods int) *CrossingDetector {
	return &CrossingDetector{
		thresholdPct: thresholdPct,
		periods:      uint(max(periods, 1)),
		st:           DetectorState{Zone: models.ZoneBetween},
	}
}

func (d *CrossingDetector) Update(s models.EmaSample) models.Signal {
	if s.LongEMA == 0 {
		return models.SignalHold
	}

	diff := s.ShortEMA - s.LongEMA
	prev, ok := s.PrevShortEMA-s.PrevLongEMA, s.HasPrev
	if !ok {
		prev, ok = d.prevDiff, d.hasPrev
	}
	d.prevDiff, d.hasPrev = diff, true

	if ok {
		switch {
		case prev <= 0 && diff > 0:
			d.armed = models.SignalBuy
			d.st.TimeInZone = 0
		case prev >= 0 && diff < 0:
			d.armed = models.SignalSell
			d.st.TimeInZone = 0
		}
	}

	zone := classify(gapPct(s.ShortEMA, s.LongEMA), d.thresholdPct)
	if (zone == models.ZoneAbove && d.armed != models.SignalBuy) ||
		(zone == models.ZoneBelow && d.armed != models.SignalSell) {
		// beyond the band without a crossing: not counted
		d.st.Zone = zone
		d.st.TimeInZone = 0
		return models.SignalHold
	}

	d.st.advance(zone)
	return d.st.emit(d.periods)
}

func (d *CrossingDetector) State() DetectorState { return d.st }

// Armed is the direction of the last crossing, empty before the first one.
func (d *CrossingDetector) Armed() models.Signal { return d.armed }

func (d *CrossingDetector) Name() string { return "crossing" }
