package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

type getCandlesRequest struct {
	InstrumentID string `json:"instrumentId"`
	From         string `json:"from"`
	To           string `json:"to"`
	Interval     string `json:"interval"`
}

type candle struct {
	Open       Quotation `json:"open"`
	High       Quotation `json:"high"`
	Low        Quotation `json:"low"`
	Close      Quotation `json:"close"`
	Volume     string    `json:"volume"`
	Time       string    `json:"time"`
	IsComplete bool      `json:"isComplete"`
}

type getCandlesResponse struct {
	Candles []candle `json:"candles"`
}

// GetCandleCloses returns close prices of the candles in [from, to], oldest
// first. The still-forming last candle is included.
func (c *Client) GetCandleCloses(ctx context.Context, instrumentID string, interval models.Interval, from, to time.Time) ([]models.IndicatorPoint, error) {
	var resp getCandlesResponse
	err := c.call(ctx, marketDataService, "GetCandles", getCandlesRequest{
		InstrumentID: instrumentID,
		From:         from.UTC().Format(time.RFC3339),
		To:           to.UTC().Format(time.RFC3339),
		Interval:     interval.CandleName(),
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]models.IndicatorPoint, 0, len(resp.Candles))
	for _, cd := range resp.Candles {
		v, err := cd.Close.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "candle %s", cd.Time)
		}
		ts, err := time.Parse(time.RFC3339Nano, cd.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "candle time %q", cd.Time)
		}
		out = append(out, models.IndicatorPoint{Time: ts, Value: v})
	}
	return out, nil
}
