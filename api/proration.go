package api

import (
	"math"
	"time"
)

// ProrationBreakdown is the cost delta for a mid-cycle plan change.
// Amounts are in paise. ProratedAmount is floored at zero: a negative
// raw delta means the unused credit exceeds the new price, which is a
// downgrade-with-credit scenario the caller handles by deferring the
// change (or recording the credit), never by charging.
type ProrationBreakdown struct {
	DaysRemaining  int   `json:"days_remaining"`
	UnusedAmount   int64 `json:"unused_amount"`
	NewPrice       int64 `json:"new_price"`
	ProratedAmount int64 `json:"prorated_amount"`
	IsUpgrade      bool  `json:"is_upgrade"`
}

// CalculateProration computes the prorated charge for switching from
// the current plan (currentPrice, over the subscription's current
// period) to a plan costing newPrice for the same billing interval.
func CalculateProration(periodStart, periodEnd time.Time, currentPrice, newPrice int64, now time.Time) ProrationBreakdown {
	daysRemaining := int(math.Floor(periodEnd.Sub(now).Hours() / 24))
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	totalDays := int(math.Round(periodEnd.Sub(periodStart).Hours() / 24))
	if totalDays <= 0 {
		totalDays = 1
	}

	unused := int64(math.Round(float64(daysRemaining) / float64(totalDays) * float64(currentPrice)))
	if unused < 0 {
		unused = 0
	}

	prorated := newPrice - unused
	if prorated < 0 {
		prorated = 0
	}

	return ProrationBreakdown{
		DaysRemaining:  daysRemaining,
		UnusedAmount:   unused,
		NewPrice:       newPrice,
		ProratedAmount: prorated,
		IsUpgrade:      newPrice > currentPrice,
	}
}
