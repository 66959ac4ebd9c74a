package services

import (
	"context"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/utils"
	"github.com/SscSPs/disposal_backoffice/internal/utils/accounting"
)

type totalsService struct {
	BaseService
	defaults PricingDefaults
}

// NewTotalsService creates the stateless totals calculator used by form previews.
func NewTotalsService(defaults PricingDefaults, opts ...ServiceOption) portssvc.TotalsSvc {
	return &totalsService{BaseService: newBaseService(opts...), defaults: defaults}
}

// Preview runs the same recomputation a save would and returns the result without persisting.
func (s *totalsService) Preview(ctx context.Context, req dto.TotalsPreviewRequest) (dto.TotalsPreviewResponse, error) {
	p := domain.Pricing{
		LineItems:      req.LineItems,
		Adjustments:    req.Adjustments,
		Discount:       req.Discount,
		TaxRate:        s.defaults.TaxRate,
		ShippingAmount: req.ShippingAmount,
		AmountPaid:     req.AmountPaid,
	}
	if req.TaxRate != nil {
		p.TaxRate = *req.TaxRate
	}
	if err := accounting.Recompute(&p); err != nil {
		return dto.TotalsPreviewResponse{}, err
	}
	s.LogDebug(ctx, "Totals previewed", "line_items", len(p.LineItems), "total", p.Totals.TotalAmount.String())
	return dto.TotalsPreviewResponse{
		LineItems:   p.LineItems,
		Adjustments: p.Adjustments,
		Totals:      p.Totals,
		Display:     accounting.RoundForDisplay(p.Totals, utils.MoneyPrecision),
	}, nil
}
