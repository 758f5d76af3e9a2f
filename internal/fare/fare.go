// Package fare computes the price breakdown for a seat selection.
package fare

import (
	"math"

	"busbooking/internal/seats"
	"busbooking/internal/shared/config"
)

const basisPoints = 10000

// Breakdown is always derived from the current selection; it is never stored on its own.
type Breakdown struct {
	BaseFare    int64 `json:"base_fare"`
	ServiceFee  int64 `json:"service_fee"`
	GSTAmount   int64 `json:"gst_amount"`
	TotalAmount int64 `json:"total_amount"`
}

type Calculator struct {
	ServiceFee int64
	GSTRate    float64
}

func NewCalculator(cfg config.FareConfig) Calculator {
	return Calculator{ServiceFee: cfg.ServiceFee, GSTRate: cfg.GSTRate}
}

// Compute sums seat prices and applies the service fee and GST.
// GST is rounded half-up to a whole rupee using integer arithmetic.
func (c Calculator) Compute(selected []seats.Seat) Breakdown {
	var base int64
	for _, seat := range selected {
		base += seat.Price
	}

	gst := RoundHalfUp(base, c.rateBasisPoints())

	return Breakdown{
		BaseFare:    base,
		ServiceFee:  c.ServiceFee,
		GSTAmount:   gst,
		TotalAmount: base + c.ServiceFee + gst,
	}
}

func (c Calculator) rateBasisPoints() int64 {
	return int64(math.Round(c.GSTRate * basisPoints))
}

// RoundHalfUp returns amount*bps/10000 rounded half-up, for non-negative amounts.
func RoundHalfUp(amount, bps int64) int64 {
	return (amount*bps + basisPoints/2) / basisPoints
}
