package domain

import "github.com/shopspring/decimal"

// LineItem is a quantity x unit price entry owned by a single document.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	ServiceID   string          `json:"service_id,omitempty"` // Weak reference to the service catalog
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"` // Always Quantity * UnitPrice
	SortOrder   int             `json:"sort_order"`
}

// AdjustmentType classifies an ad-hoc charge or credit.
type AdjustmentType string

const (
	AdjustmentFuelSurcharge AdjustmentType = "fuel_surcharge"
	AdjustmentDisposalFee   AdjustmentType = "disposal_fee"
	AdjustmentLabor         AdjustmentType = "labor"
	AdjustmentCredit        AdjustmentType = "credit"
	AdjustmentDiscount      AdjustmentType = "discount"
	AdjustmentOther         AdjustmentType = "other"
)

// Adjustment is a signed charge (positive) or credit (negative) added after the taxable subtotal.
type Adjustment struct {
	ID             string          `json:"id" validate:"required"`
	AdjustmentType AdjustmentType  `json:"adjustment_type" validate:"required,oneof=fuel_surcharge disposal_fee labor credit discount other"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason" validate:"required,notblank"`
}

// DiscountType selects how DiscountSpec.Value is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// DiscountSpec is the user-supplied discount input.
type DiscountSpec struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Totals is the derived financial snapshot embedded in priced documents.
type Totals struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	AdjustmentsTotal decimal.Decimal `json:"adjustments_total"`
	TaxableSubtotal  decimal.Decimal `json:"taxable_subtotal"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	ShippingAmount   decimal.Decimal `json:"shipping_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	BalanceDue       decimal.Decimal `json:"balance_due"`
}

// Pricing groups the calculation inputs and the derived snapshot of an invoice or estimate.
// Discount, TaxRate, ShippingAmount and AmountPaid are the only user inputs; Totals is derived.
type Pricing struct {
	LineItems      []LineItem      `json:"line_items"`
	Adjustments    []Adjustment    `json:"adjustments"`
	Discount       DiscountSpec    `json:"discount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Totals         Totals          `json:"totals"`
}

// Priced is implemented by documents that carry line items and totals.
type Priced interface {
	GetPricing() *Pricing
}

func (p *Pricing) GetPricing() *Pricing { return p }
