package models

import "time"

// EmaSample is one observation of an instrument per cycle.
// Prev* are the second-most-recent EMA points, set only when the series had them.
type EmaSample struct {
	ShortEMA  float64
	LongEMA   float64
	LastPrice float64

	PrevShortEMA float64
	PrevLongEMA  float64
	HasPrev      bool
}

// IndicatorPoint is one value of an indicator series, oldest first in a slice.
type IndicatorPoint struct {
	Time  time.Time
	Value float64
}
