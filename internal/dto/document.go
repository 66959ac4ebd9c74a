package dto

import (
	"encoding/json"
	"io"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentPatch is a partial document body keyed by JSON field name. Keys that are absent
// are left unchanged; derived values such as totals and line totals are ignored.
type DocumentPatch map[string]json.RawMessage

// TransitionRequest asks for a status change.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// RevokeRequest asks for a document to be revoked.
type RevokeRequest struct {
	Reason string `json:"reason"`
}

// SendInvoiceRequest asks for an invoice to be emailed to a customer.
type SendInvoiceRequest struct {
	InvoiceID string `json:"invoiceId" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Message   string `json:"message"`
}

// TotalsPreviewRequest carries the calculation inputs of an unsaved document.
type TotalsPreviewRequest struct {
	LineItems      []domain.LineItem   `json:"line_items"`
	Adjustments    []domain.Adjustment `json:"adjustments"`
	Discount       domain.DiscountSpec `json:"discount"`
	TaxRate        *decimal.Decimal    `json:"tax_rate"`
	ShippingAmount decimal.Decimal     `json:"shipping_amount"`
	AmountPaid     decimal.Decimal     `json:"amount_paid"`
}

// TotalsPreviewResponse is the authoritative result of a preview.
type TotalsPreviewResponse struct {
	LineItems   []domain.LineItem   `json:"line_items"`
	Adjustments []domain.Adjustment `json:"adjustments"`
	Totals      domain.Totals       `json:"totals"`
	// Display holds the same totals rounded to cents.
	Display domain.Totals `json:"display"`
}

// UploadRequest is a file received from a multipart form.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResponse is returned after a file was stored.
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// StatusRuleResponse describes one status of an entity type.
type StatusRuleResponse struct {
	Status        domain.Status   `json:"status"`
	EditableMode  string          `json:"editable_mode"`
	Fields        []string        `json:"fields,omitempty"`
	NextStatuses  []domain.Status `json:"next_statuses"`
	InitialStatus bool            `json:"initial,omitempty"`
}

// ResourceMetaResponse describes a resource for form builders.
type ResourceMetaResponse struct {
	Resource string               `json:"resource"`
	Schema   json.RawMessage      `json:"schema"`
	Statuses []StatusRuleResponse `json:"statuses,omitempty"`
}
