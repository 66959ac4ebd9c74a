package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalsInput is everything the totals calculation depends on.
type TotalsInput struct {
	Subtotal         decimal.Decimal
	AdjustmentsTotal decimal.Decimal
	Discount         domain.DiscountSpec
	TaxRate          decimal.Decimal // percent, e.g. 8 for 8%
	ShippingAmount   decimal.Decimal
	AmountPaid       decimal.Decimal
}

// ComputeTotals derives the totals snapshot. The evaluation order is fixed:
// discount applies to the line-item subtotal only, tax applies to the discounted subtotal,
// and adjustments and shipping are added after tax without being discounted or taxed.
// It is a pure function of its input.
func ComputeTotals(in TotalsInput) domain.Totals {
	var discountAmount, discountPercent decimal.Decimal
	if in.Discount.Type == domain.DiscountPercent {
		discountPercent = in.Discount.Value
		discountAmount = in.Subtotal.Mul(in.Discount.Value).Div(hundred)
	} else {
		discountAmount = in.Discount.Value
		if !in.Subtotal.IsZero() {
			discountPercent = discountAmount.Div(in.Subtotal).Mul(hundred)
		}
	}

	taxable := in.Subtotal.Sub(discountAmount)
	tax := taxable.Mul(in.TaxRate.Div(hundred))
	total := taxable.Add(in.AdjustmentsTotal).Add(tax).Add(in.ShippingAmount)

	return domain.Totals{
		Subtotal:         in.Subtotal,
		DiscountAmount:   discountAmount,
		DiscountPercent:  discountPercent,
		AdjustmentsTotal: in.AdjustmentsTotal,
		TaxableSubtotal:  taxable,
		TaxRate:          in.TaxRate,
		TaxAmount:        tax,
		ShippingAmount:   in.ShippingAmount,
		TotalAmount:      total,
		AmountPaid:       in.AmountPaid,
		BalanceDue:       total.Sub(in.AmountPaid),
	}
}

// ValidateDiscount checks the discount input against the subtotal it will apply to.
func ValidateDiscount(d domain.DiscountSpec, subtotal decimal.Decimal) error {
	switch d.Type {
	case domain.DiscountPercent:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percent discount must be between 0 and 100", apperrors.ErrValidation)
		}
	case domain.DiscountFixed, "":
		if d.Value.IsNegative() {
			return fmt.Errorf("%w: fixed discount cannot be negative", apperrors.ErrValidation)
		}
		if d.Value.GreaterThan(subtotal) {
			return fmt.Errorf("%w: fixed discount %s exceeds subtotal %s", apperrors.ErrValidation, d.Value.String(), subtotal.String())
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", apperrors.ErrValidation, d.Type)
	}
	return nil
}

// Recompute refreshes every derived value of p: line totals, the subtotal, the adjustments
// total and the totals snapshot. Client-submitted derived values are discarded. Line items and
// adjustments without an id get one, and line items without a sort order are appended in input order.
func Recompute(p *domain.Pricing) error {
	ordered := make([]domain.LineItem, len(p.LineItems))
	copy(ordered, p.LineItems)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].SortOrder, ordered[j].SortOrder
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	lines := NewLineItems(nil)
	for _, it := range ordered {
		if _, err := lines.Add(it); err != nil {
			return err
		}
	}

	adjustments := NewAdjustments(nil, nil)
	for _, adj := range p.Adjustments {
		if _, err := adjustments.Add(adj); err != nil {
			return err
		}
	}

	if p.TaxRate.IsNegative() {
		return fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
	}
	if p.ShippingAmount.IsNegative() {
		return fmt.Errorf("%w: shipping amount cannot be negative", apperrors.ErrValidation)
	}
	if p.AmountPaid.IsNegative() {
		return fmt.Errorf("%w: amount paid cannot be negative", apperrors.ErrValidation)
	}
	subtotal := lines.Total()
	if err := ValidateDiscount(p.Discount, subtotal); err != nil {
		return err
	}

	p.LineItems = lines.Items()
	p.Adjustments = adjustments.Items()
	p.Totals = ComputeTotals(TotalsInput{
		Subtotal:         subtotal,
		AdjustmentsTotal: adjustments.Total(),
		Discount:         p.Discount,
		TaxRate:          p.TaxRate,
		ShippingAmount:   p.ShippingAmount,
		AmountPaid:       p.AmountPaid,
	})
	return nil
}

// RoundForDisplay rounds every money value of t to places decimal places. Use it only when
// presenting totals; stored and intermediate values keep full precision.
func RoundForDisplay(t domain.Totals, places int32) domain.Totals {
	return domain.Totals{
		Subtotal:         t.Subtotal.Round(places),
		DiscountAmount:   t.DiscountAmount.Round(places),
		DiscountPercent:  t.DiscountPercent.Round(places),
		AdjustmentsTotal: t.AdjustmentsTotal.Round(places),
		TaxableSubtotal:  t.TaxableSubtotal.Round(places),
		TaxRate:          t.TaxRate,
		TaxAmount:        t.TaxAmount.Round(places),
		ShippingAmount:   t.ShippingAmount.Round(places),
		TotalAmount:      t.TotalAmount.Round(places),
		AmountPaid:       t.AmountPaid.Round(places),
		BalanceDue:       t.BalanceDue.Round(places),
	}
}
