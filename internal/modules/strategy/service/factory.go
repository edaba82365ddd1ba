package service

import (
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Params is the per-instrument strategy configuration, copied into each
// registry entry at creation.
type Params struct {
	ShortLength       int
	LongLength        int
	Interval          models.Interval
	HysteresisPct     float64
	HysteresisPeriods int
	Variant           string
}

func NewParams(cfg *config.Config) Params {
	return Params{
		ShortLength:       cfg.Strategy.ShortEMA,
		LongLength:        cfg.Strategy.LongEMA,
		Interval:          cfg.Interval(),
		HysteresisPct:     cfg.Strategy.HysteresisPct,
		HysteresisPeriods: cfg.Strategy.HysteresisPeriods,
		Variant:           cfg.Strategy.Variant,
	}
}

// DetectorFactory builds a fresh detector for a new instrument.
type DetectorFactory func(p Params) Detector

func NewDetector(p Params) Detector {
	if p.Variant == config.VariantCrossing {
		return NewCrossingDetector(p.HysteresisPct, p.HysteresisPeriods)
	}
	return NewBandDetector(p.HysteresisPct, p.HysteresisPeriods)
}
