package cart

import (
	"math"
)

type Pricing struct {
	TaxRate               float64
	FreeShippingThreshold Money
	ShippingFee           Money
}

// DefaultPricing is 18% GST, free shipping from ₹2000, otherwise ₹100.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               0.18,
		FreeShippingThreshold: FromMajor(2000),
		ShippingFee:           FromMajor(100),
	}
}

type Totals struct {
	Subtotal                Money   `json:"subtotal"`
	Tax                     Money   `json:"tax"`
	ShippingFee             Money   `json:"shipping_fee"`
	Total                   Money   `json:"total"`
	ShippingProgressPercent float64 `json:"shipping_progress_percent"`
	FreeShippingThreshold   Money   `json:"free_shipping_threshold"`
	AmountToFreeShipping    Money   `json:"amount_to_free_shipping"`
}

// Calculate derives every monetary figure from items. Tax is rounded half
// away from zero to the minor unit. Nothing else is rounded.
func (p Pricing) Calculate(items []LineItem) Totals {
	var subtotal Money
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	tax := Money(math.Round(float64(subtotal) * p.TaxRate))

	// An empty cart ships nothing, so it owes no fee.
	shipping := p.ShippingFee
	if len(items) == 0 || subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}

	progress := 100.0
	if p.FreeShippingThreshold > 0 {
		progress = math.Min(float64(subtotal)/float64(p.FreeShippingThreshold)*100, 100)
	}

	remaining := p.FreeShippingThreshold - subtotal
	if remaining < 0 {
		remaining = 0
	}

	return Totals{
		Subtotal:                subtotal,
		Tax:                     tax,
		ShippingFee:             shipping,
		Total:                   subtotal + tax + shipping,
		ShippingProgressPercent: progress,
		FreeShippingThreshold:   p.FreeShippingThreshold,
		AmountToFreeShipping:    remaining,
	}
}
