package pricing

import (
	"fmt"
	"math"
)

// Fee formulas applied to every paid ticket. Both fees are computed from
// the discounted base price.
const (
	ServiceFeeRate = 0.035
	ServiceFeeFlat = 1.29
	PaymentFeeRate = 0.035
	PaymentFeeFlat = 0.35
)

// FreeLabel is the consumer-facing price of a free-event ticket.
const FreeLabel = "Free"

// Breakdown is a fully computed consumer-facing price.
type Breakdown struct {
	BasePrice     float64 `json:"base_price"`
	EffectiveBase float64 `json:"effective_base"`
	ServiceFee    float64 `json:"service_fee"`
	PaymentFee    float64 `json:"payment_fee"`
	Total         float64 `json:"total"`
}

// RoundCents rounds to 2 decimal places, half up.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Quote computes the full fee breakdown for a base price with an optional
// deal discount (0-100 percent). The discount is applied to the base
// before the fees are computed. Never stored: recomputed on demand so a
// base-price edit can never desynchronize a cached total.
func Quote(basePrice, dealDiscountPercent float64) Breakdown {
	effective := basePrice
	if dealDiscountPercent > 0 {
		effective = basePrice * (1 - dealDiscountPercent/100)
	}
	if effective == 0 {
		// Nothing to collect, nothing to charge fees on.
		return Breakdown{BasePrice: basePrice}
	}
	serviceFee := effective*ServiceFeeRate + ServiceFeeFlat
	paymentFee := effective*PaymentFeeRate + PaymentFeeFlat
	return Breakdown{
		BasePrice:     basePrice,
		EffectiveBase: effective,
		ServiceFee:    serviceFee,
		PaymentFee:    paymentFee,
		Total:         RoundCents(effective + serviceFee + paymentFee),
	}
}

// FinalPrice is the rounded consumer total for a paid ticket.
func FinalPrice(basePrice, dealDiscountPercent float64) float64 {
	return Quote(basePrice, dealDiscountPercent).Total
}

// Display renders the consumer-facing price. Free-event mode is an
// explicit wizard flag, not inferred from a zero base price.
func Display(basePrice, dealDiscountPercent float64, freeEvent bool) string {
	if freeEvent {
		return FreeLabel
	}
	return fmt.Sprintf("$%.2f", FinalPrice(basePrice, dealDiscountPercent))
}
