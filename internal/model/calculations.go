package model

import "github.com/iliyamo/expo-stall-booking/internal/geometry"

// BookingCalculations is the itemized, auditable price breakdown for a
// set of selected stalls. It is the canonical output of the pricing
// engine: recomputing from the same stalls and configuration must
// reproduce it exactly, and once persisted on a booking it is never
// recalculated.
type BookingCalculations struct {
	Stalls                   []StallCalculation `json:"stalls"`
	TotalBaseAmount          float64            `json:"totalBaseAmount"`
	TotalDiscountAmount      float64            `json:"totalDiscountAmount"`
	AppliedDiscounts         []AppliedDiscount  `json:"appliedDiscounts"`
	TotalAmountAfterDiscount float64            `json:"totalAmountAfterDiscount"`
	Taxes                    []TaxCalculation   `json:"taxes"`
	TotalTaxAmount           float64            `json:"totalTaxAmount"`
	TotalAmount              float64            `json:"totalAmount"`
}

// StallCalculation is the per-stall line of a price breakdown. Discount
// is nil when no discount applied to this stall.
type StallCalculation struct {
	StallID             string              `json:"stallId"`
	Number              string              `json:"number"`
	Area                float64             `json:"area"`
	RatePerSqm          float64             `json:"ratePerSqm"`
	Dimensions          geometry.Dimensions `json:"dimensions"`
	BaseAmount          float64             `json:"baseAmount"`
	Discount            *AppliedDiscount    `json:"discount,omitempty"`
	AmountAfterDiscount float64             `json:"amountAfterDiscount"`
}

// AppliedDiscount records which configured discount was actually applied
// and the monetary reduction it produced.
type AppliedDiscount struct {
	Name   string       `json:"name"`
	Type   DiscountType `json:"type"`
	Value  float64      `json:"value"`
	Amount float64      `json:"amount"`
}

// TaxCalculation is one tax line of a price breakdown. Amount is
// Rate% of the post-discount total, never of another tax line.
type TaxCalculation struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}
