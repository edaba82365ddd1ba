package service

import "signal_bot/internal/models"

// BandDetector emits once the short/long gap has stayed beyond the threshold
// for the configured number of consecutive samples.
type BandDetector struct {
	thresholdPct float64
	periods      uint
	st           DetectorState
}

func NewBandDetector(thresholdPct float64, periods int) *BandDetector {
	return &BandDetector{
		thresholdPct: thresholdPct,
		periods:      uint(max(periods, 1)),
		st:           DetectorState{Zone: models.ZoneBetween},
	}
}

func (d *BandDetector) Update(s models.EmaSample) models.Signal {
	return d.UpdateValues(s.ShortEMA, s.LongEMA)
}

// UpdateValues is Update for a bare pair of EMA values.
func (d *BandDetector) UpdateValues(short, long float64) models.Signal {
	if long == 0 {
		return models.SignalHold
	}
	d.st.advance(classify(gapPct(short, long), d.thresholdPct))
	return d.st.emit(d.periods)
}

func (d *BandDetector) State() DetectorState { return d.st }

func (d *BandDetector) Name() string { return "band" }
