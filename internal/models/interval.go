package models

import (
	"fmt"
	"math"
	"strings"
)

// Interval is the sampling timeframe of the EMA series, e.g. "5m" or "1h".
type Interval string

type intervalDef struct {
	indicator    string
	candle       string
	pointsPerDay int
	minDays      int
}

var intervals = map[Interval]intervalDef{
	"1m":  {"INDICATOR_INTERVAL_ONE_MINUTE", "CANDLE_INTERVAL_1_MIN", 24 * 60, 1},
	"2m":  {"INDICATOR_INTERVAL_2_MIN", "CANDLE_INTERVAL_2_MIN", 24 * 30, 1},
	"3m":  {"INDICATOR_INTERVAL_3_MIN", "CANDLE_INTERVAL_3_MIN", 24 * 20, 1},
	"5m":  {"INDICATOR_INTERVAL_FIVE_MINUTES", "CANDLE_INTERVAL_5_MIN", 24 * 12, 1},
	"10m": {"INDICATOR_INTERVAL_10_MIN", "CANDLE_INTERVAL_10_MIN", 24 * 6, 1},
	"15m": {"INDICATOR_INTERVAL_FIFTEEN_MINUTES", "CANDLE_INTERVAL_15_MIN", 24 * 4, 1},
	"30m": {"INDICATOR_INTERVAL_30_MIN", "CANDLE_INTERVAL_30_MIN", 24 * 2, 2},
	"1h":  {"INDICATOR_INTERVAL_ONE_HOUR", "CANDLE_INTERVAL_HOUR", 24, 3},
	"2h":  {"INDICATOR_INTERVAL_2_HOUR", "CANDLE_INTERVAL_2_HOUR", 12, 4},
	"4h":  {"INDICATOR_INTERVAL_4_HOUR", "CANDLE_INTERVAL_4_HOUR", 6, 8},
	"1d":  {"INDICATOR_INTERVAL_ONE_DAY", "CANDLE_INTERVAL_DAY", 0, 30},
	"1w":  {"INDICATOR_INTERVAL_WEEK", "CANDLE_INTERVAL_WEEK", 0, 90},
	"1M":  {"INDICATOR_INTERVAL_MONTH", "CANDLE_INTERVAL_MONTH", 0, 180},
}

// ParseInterval normalises a timeframe string ("60m" and "1H" both become "1h").
func ParseInterval(raw string) (Interval, error) {
	s := strings.TrimSpace(raw)
	if s != "1M" {
		s = strings.ToLower(s)
	}
	switch s {
	case "60m":
		s = "1h"
	case "120m":
		s = "2h"
	case "240m":
		s = "4h"
	case "24h":
		s = "1d"
	}
	iv := Interval(s)
	if _, ok := intervals[iv]; !ok {
		return "", fmt.Errorf("unknown interval %q", raw)
	}
	return iv, nil
}

// IndicatorName is the provider's tech-analysis interval enum.
func (i Interval) IndicatorName() string {
	if def, ok := intervals[i]; ok {
		return def.indicator
	}
	return "INDICATOR_INTERVAL_UNSPECIFIED"
}

// CandleName is the provider's candle interval enum.
func (i Interval) CandleName() string {
	if def, ok := intervals[i]; ok {
		return def.candle
	}
	return "CANDLE_INTERVAL_UNSPECIFIED"
}

// LookbackDays is how many days of history an EMA of the given length needs:
// ceil(length*3.75) points, spread over the interval's points per day, never
// less than the interval's minimum.
func (i Interval) LookbackDays(length int) int {
	required := int(math.Ceil(float64(length) * 3.75))
	def, ok := intervals[i]
	if !ok {
		return max(required, 30)
	}
	switch i {
	case "1d":
		return max(required, def.minDays)
	case "1w":
		return max(required*7, def.minDays)
	case "1M":
		return max(required*30, def.minDays)
	}
	days := int(math.Ceil(float64(required) / float64(def.pointsPerDay)))
	return max(days, def.minDays)
}
