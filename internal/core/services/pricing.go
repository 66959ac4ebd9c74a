package services

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PricingDefaults are applied to new priced documents.
type PricingDefaults struct {
	// TaxRate is a percentage, e.g. 8.25.
	TaxRate decimal.Decimal
}

func applyPricingDefaults(p *domain.Pricing, defaults PricingDefaults) {
	p.TaxRate = defaults.TaxRate
	p.Discount = domain.DiscountSpec{Type: domain.DiscountPercent, Value: decimal.Zero}
	p.LineItems = []domain.LineItem{}
	p.Adjustments = []domain.Adjustment{}
}

func recomputePricing[T domain.Priced](doc T) error {
	return accounting.Recompute(doc.GetPricing())
}

func readOnlySet(fields ...string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
