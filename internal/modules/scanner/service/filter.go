package service

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"signal_bot/internal/models"
)

// Filter keeps instruments of one class code and instrument type.
type Filter struct {
	ClassCode      string
	InstrumentType string
}

// Apply is pure: it returns a new slice sorted by ticker, input order kept
// among equal tickers.
func (f Filter) Apply(in []models.Instrument) []models.Instrument {
	out := lo.Filter(in, func(it models.Instrument, _ int) bool {
		return strings.EqualFold(it.ClassCode, f.ClassCode) &&
			strings.EqualFold(it.InstrumentType, f.InstrumentType)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}
