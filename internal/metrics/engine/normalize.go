package engine

import (
	"math"

	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
)

// IsRecurring classifies a product for revenue purposes. A missing product
// reference defaults to recurring: older records predate the payment type
// field. This is the single place that default lives.
func IsRecurring(p *productdomain.Product) bool {
	if p == nil {
		return true
	}
	return p.PaymentType != productdomain.PaymentOneTime
}

// MonthlyValueCents converts a product's sticker price into its monthly
// equivalent, in fractional cents. Annual prices divide by twelve; monthly
// prices pass through. Never called for one-time products, whose price is
// billed as a lump sum exactly once.
func MonthlyValueCents(p *productdomain.Product) float64 {
	if p == nil {
		return 0
	}
	if p.BillingPeriod == productdomain.BillingAnnual {
		return float64(p.PriceCents) / 12
	}
	return float64(p.PriceCents)
}

func roundMoney(raw float64) int64 {
	return int64(math.Floor(raw + 0.5))
}
