package service

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Quotation is the gateway's fixed-point number: integer units (sent as a
// string) plus billionths.
type Quotation struct {
	Units string `json:"units"`
	Nano  int32  `json:"nano"`
}

func (q Quotation) Decimal() (decimal.Decimal, error) {
	units := decimal.Zero
	if s := strings.TrimSpace(q.Units); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "quotation units %q", q.Units)
		}
		units = d
	}
	return units.Add(decimal.New(int64(q.Nano), -9)), nil
}

func (q Quotation) Float64() (float64, error) {
	d, err := q.Decimal()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
