package service

import (
	"context"

	"signal_bot/internal/models"
)

type getAssetsRequest struct {
	InstrumentType   string `json:"instrumentType"`
	InstrumentStatus string `json:"instrumentStatus"`
}

type assetInstrument struct {
	UID            string `json:"uid"`
	FIGI           string `json:"figi"`
	InstrumentType string `json:"instrumentType"`
	Ticker         string `json:"ticker"`
	ClassCode      string `json:"classCode"`
	PositionUID    string `json:"positionUid"`
}

type getAssetsResponse struct {
	Assets []struct {
		UID         string            `json:"uid"`
		Type        string            `json:"type"`
		Name        string            `json:"name"`
		Instruments []assetInstrument `json:"instruments"`
	} `json:"assets"`
}

// GetAssets returns every instrument of every asset, flattened, in the order
// the gateway sent them. Instruments without a uid are dropped.
func (c *Client) GetAssets(ctx context.Context) ([]models.Instrument, error) {
	var resp getAssetsResponse
	err := c.call(ctx, instrumentsService, "GetAssets", getAssetsRequest{
		InstrumentType:   c.instrumentType,
		InstrumentStatus: c.instrumentStatus,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]models.Instrument, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		for _, in := range a.Instruments {
			if in.UID == "" {
				continue
			}
			out = append(out, models.Instrument{
				ID:             in.UID,
				Ticker:         in.Ticker,
				FIGI:           in.FIGI,
				ClassCode:      in.ClassCode,
				InstrumentType: in.InstrumentType,
				PositionUID:    in.PositionUID,
			})
		}
	}
	return out, nil
}
