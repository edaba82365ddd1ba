package service

import (
	"context"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
	strategy "signal_bot/internal/modules/strategy/service"
)

// errCancelled marks a sample abandoned at a checkpoint.
var errCancelled = errors.New("scan cancelled")

var errEmptySeries = errors.New("empty series")

// sample fetches short EMA, long EMA and last price, in that order. Each call
// runs on call, which is never cancelled, so a started request completes;
// ctx is checked after every call.
func (s *Scanner) sample(ctx, call context.Context, id string, p strategy.Params) (models.EmaSample, error) {
	short, err := s.indicators.GetEMA(call, id, p.ShortLength, p.Interval)
	if ctx.Err() != nil {
		return models.EmaSample{}, errCancelled
	}
	if err == nil && len(short) == 0 {
		err = errEmptySeries
	}
	if err != nil {
		return models.EmaSample{}, &models.InstrumentEvalError{InstrumentID: id, Stage: "short_ema", Err: err}
	}

	long, err := s.indicators.GetEMA(call, id, p.LongLength, p.Interval)
	if ctx.Err() != nil {
		return models.EmaSample{}, errCancelled
	}
	if err == nil && len(long) == 0 {
		err = errEmptySeries
	}
	if err != nil {
		return models.EmaSample{}, &models.InstrumentEvalError{InstrumentID: id, Stage: "long_ema", Err: err}
	}

	price, err := s.prices.GetLastPrice(call, id)
	if ctx.Err() != nil {
		return models.EmaSample{}, errCancelled
	}
	if err != nil {
		return models.EmaSample{}, &models.InstrumentEvalError{InstrumentID: id, Stage: "last_price", Err: err}
	}

	out := models.EmaSample{
		ShortEMA:  short[len(short)-1].Value,
		LongEMA:   long[len(long)-1].Value,
		LastPrice: price,
	}
	if len(short) > 1 && len(long) > 1 {
		out.PrevShortEMA = short[len(short)-2].Value
		out.PrevLongEMA = long[len(long)-2].Value
		out.HasPrev = true
	}
	return out, nil
}
