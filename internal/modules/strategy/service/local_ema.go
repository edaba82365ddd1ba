package service

import (
	"context"
	"fmt"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// CandleSource returns close prices, oldest first.
type CandleSource interface {
	GetCandleCloses(ctx context.Context, instrumentID string, interval models.Interval, from, to time.Time) ([]models.IndicatorPoint, error)
}

// LocalEMA computes the EMA series from candles instead of asking the
// provider for it.
type LocalEMA struct {
	candles CandleSource
	now     func() time.Time
}

func NewLocalEMA(candles CandleSource) *LocalEMA {
	return &LocalEMA{candles: candles, now: time.Now}
}

// GetEMA returns the EMA series over the same lookback window the remote
// indicator uses. The first point is the SMA seed at index length-1.
func (l *LocalEMA) GetEMA(ctx context.Context, instrumentID string, length int, interval models.Interval) ([]models.IndicatorPoint, error) {
	if length <= 0 {
		return nil, fmt.Errorf("ema length must be > 0, got %d", length)
	}

	to := l.now().UTC()
	from := to.AddDate(0, 0, -interval.LookbackDays(length))
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	closes, err := l.candles.GetCandleCloses(ctx, instrumentID, interval, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "candles")
	}
	if len(closes) < length {
		return nil, nil
	}

	in := make([]float64, len(closes))
	for i, c := range closes {
		in[i] = c.Value
	}
	out := talib.Ema(in, length)

	points := make([]models.IndicatorPoint, 0, len(closes)-length+1)
	for i := length - 1; i < len(out); i++ {
		points = append(points, models.IndicatorPoint{Time: closes[i].Time, Value: out[i]})
	}
	return points, nil
}
