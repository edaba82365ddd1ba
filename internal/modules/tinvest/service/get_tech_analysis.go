package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

type getTechAnalysisRequest struct {
	IndicatorType string `json:"indicatorType"`
	InstrumentUID string `json:"instrumentUid"`
	From          string `json:"from"`
	To            string `json:"to"`
	Interval      string `json:"interval"`
	TypeOfPrice   string `json:"typeOfPrice"`
	Length        int    `json:"length"`
}

type technicalIndicator struct {
	Timestamp  string     `json:"timestamp"`
	Signal     *Quotation `json:"signal"`
	MiddleBand *Quotation `json:"middleBand"`
}

type getTechAnalysisResponse struct {
	TechnicalIndicators []technicalIndicator `json:"technicalIndicators"`
}

// GetEMA asks the gateway for the close-price EMA series, oldest first, over a
// window long enough for the indicator to settle.
func (c *Client) GetEMA(ctx context.Context, instrumentID string, length int, interval models.Interval) ([]models.IndicatorPoint, error) {
	if length <= 0 {
		return nil, fmt.Errorf("ema length must be > 0, got %d", length)
	}

	to := c.now().UTC()
	from := to.AddDate(0, 0, -interval.LookbackDays(length))
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	var resp getTechAnalysisResponse
	err := c.call(ctx, marketDataService, "GetTechAnalysis", getTechAnalysisRequest{
		IndicatorType: "INDICATOR_TYPE_EMA",
		InstrumentUID: instrumentID,
		From:          from.Format(time.RFC3339),
		To:            to.Format(time.RFC3339),
		Interval:      interval.IndicatorName(),
		TypeOfPrice:   "TYPE_OF_PRICE_CLOSE",
		Length:        length,
	}, &resp)
	if err != nil {
		return nil, err
	}

	points := make([]models.IndicatorPoint, 0, len(resp.TechnicalIndicators))
	for _, ti := range resp.TechnicalIndicators {
		q := ti.Signal
		if q == nil {
			q = ti.MiddleBand
		}
		if q == nil {
			continue
		}
		v, err := q.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "ema point %s", ti.Timestamp)
		}
		ts, err := time.Parse(time.RFC3339Nano, ti.Timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "ema timestamp %q", ti.Timestamp)
		}
		points = append(points, models.IndicatorPoint{Time: ts, Value: v})
	}
	return points, nil
}
