package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cost incurred with a vendor.
type Expense struct {
	Document
	VendorID      string          `json:"vendor_id,omitempty"`
	JobID         string          `json:"job_id,omitempty"`
	Category      string          `json:"category" validate:"required,notblank"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   *time.Time      `json:"expense_date,omitempty"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
	SubmittedDate *time.Time      `json:"submitted_date,omitempty"`
	ApprovedDate  *time.Time      `json:"approved_date,omitempty"`
	ArchivedDate  *time.Time      `json:"archived_date,omitempty"`
}

func (e *Expense) EntityType() EntityType { return EntityExpense }

func (e *Expense) StampStatus(s Status, at time.Time) {
	switch s {
	case StatusSubmitted:
		e.SubmittedDate = timePtr(at)
	case StatusApproved:
		e.ApprovedDate = timePtr(at)
	case StatusArchived:
		e.ArchivedDate = timePtr(at)
	}
}
