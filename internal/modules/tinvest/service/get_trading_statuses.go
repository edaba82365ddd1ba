package service

import (
	"context"
)

const normalTrading = "SECURITY_TRADING_STATUS_NORMAL_TRADING"

type getTradingStatusesRequest struct {
	InstrumentID []string `json:"instrumentId"`
}

type TradingStatus struct {
	FIGI                     string `json:"figi"`
	InstrumentUID            string `json:"instrumentUid"`
	TradingStatus            string `json:"tradingStatus"`
	LimitOrderAvailableFlag  bool   `json:"limitOrderAvailableFlag"`
	MarketOrderAvailableFlag bool   `json:"marketOrderAvailableFlag"`
	APITradeAvailableFlag    bool   `json:"apiTradeAvailableFlag"`
}

// Tradable is true only for normal trading with API trading enabled.
func (s TradingStatus) Tradable() bool {
	return s.TradingStatus == normalTrading && s.APITradeAvailableFlag
}

type getTradingStatusesResponse struct {
	TradingStatuses []TradingStatus `json:"tradingStatuses"`
}

func (c *Client) GetTradingStatuses(ctx context.Context, ids []string) ([]TradingStatus, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resp getTradingStatusesResponse
	if err := c.call(ctx, marketDataService, "GetTradingStatuses", getTradingStatusesRequest{InstrumentID: ids}, &resp); err != nil {
		return nil, err
	}
	return resp.TradingStatuses, nil
}

// CheckTradable answers for every requested id; ids the gateway did not
// report on are not tradable.
func (c *Client) CheckTradable(ctx context.Context, ids []string) (map[string]bool, error) {
	statuses, err := c.GetTradingStatuses(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = false
	}
	for _, s := range statuses {
		if _, ok := out[s.InstrumentUID]; ok {
			out[s.InstrumentUID] = s.Tradable()
		}
	}
	return out, nil
}
