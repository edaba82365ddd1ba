package models

// Instrument is a catalog entry of the market-data provider.
// ID is the provider uid and is the key everywhere; Ticker is for display only.
type Instrument struct {
	ID             string
	Ticker         string
	FIGI           string
	ClassCode      string
	InstrumentType string
	PositionUID    string
}

// InstrumentIDs returns ids in input order.
func InstrumentIDs(list []Instrument) []string {
	ids := make([]string, 0, len(list))
	for _, in := range list {
		ids = append(ids, in.ID)
	}
	return ids
}
