package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type getLastPricesRequest struct {
	InstrumentID     []string `json:"instrumentId"`
	LastPriceType    string   `json:"lastPriceType"`
	InstrumentStatus string   `json:"instrumentStatus"`
}

type lastPrice struct {
	FIGI          string    `json:"figi"`
	InstrumentUID string    `json:"instrumentUid"`
	Price         Quotation `json:"price"`
	Time          string    `json:"time"`
}

type getLastPricesResponse struct {
	LastPrices []lastPrice `json:"lastPrices"`
}

// GetLastPrices returns exchange last prices keyed by instrument uid.
func (c *Client) GetLastPrices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	var resp getLastPricesResponse
	err := c.call(ctx, marketDataService, "GetLastPrices", getLastPricesRequest{
		InstrumentID:     ids,
		LastPriceType:    "LAST_PRICE_EXCHANGE",
		InstrumentStatus: c.instrumentStatus,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(resp.LastPrices))
	for _, lp := range resp.LastPrices {
		d, err := lp.Price.Decimal()
		if err != nil {
			return nil, errors.Wrapf(err, "last price of %s", lp.InstrumentUID)
		}
		out[lp.InstrumentUID] = d
	}
	return out, nil
}

func (c *Client) GetLastPrice(ctx context.Context, id string) (float64, error) {
	prices, err := c.GetLastPrices(ctx, []string{id})
	if err != nil {
		return 0, err
	}
	p, ok := prices[id]
	if !ok {
		return 0, fmt.Errorf("no last price for %s", id)
	}
	return p.InexactFloat64(), nil
}
