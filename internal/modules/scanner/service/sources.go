package service

import (
	"context"
	"time"

	"signal_bot/internal/models"
	notifier "signal_bot/internal/modules/notifier/service"
)

type UniverseSource interface {
	GetAssets(ctx context.Context) ([]models.Instrument, error)
}

// TradabilitySource answers for every requested id.
type TradabilitySource interface {
	CheckTradable(ctx context.Context, ids []string) (map[string]bool, error)
}

// IndicatorSource returns an EMA series, oldest first.
type IndicatorSource interface {
	GetEMA(ctx context.Context, instrumentID string, length int, interval models.Interval) ([]models.IndicatorPoint, error)
}

type PriceSource interface {
	GetLastPrice(ctx context.Context, instrumentID string) (float64, error)
}

type SignalSink interface {
	Notify(ctx context.Context, ev models.SignalEvent) notifier.BroadcastResult
}

// CycleRecorder receives the outcome of every finished cycle.
type CycleRecorder interface {
	RecordCycle(id string, at time.Time, ok bool, tracked int)
}
