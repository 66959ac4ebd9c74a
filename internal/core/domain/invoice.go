package domain

import "time"

// Invoice is a bill sent to a customer.
type Invoice struct {
	Document
	Pricing
	CustomerID    string     `json:"customer_id" validate:"required"`
	EstimateID    string     `json:"estimate_id,omitempty"`
	JobID         string     `json:"job_id,omitempty"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	SentDate      *time.Time `json:"sent_date,omitempty"`
	FinalizedDate *time.Time `json:"finalized_date,omitempty"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	VoidedDate    *time.Time `json:"voided_date,omitempty"`
}

func (i *Invoice) EntityType() EntityType { return EntityInvoice }

// StampStatus sets the entry timestamp matching the status.
func (i *Invoice) StampStatus(s Status, at time.Time) {
	switch s {
	case StatusSent:
		i.SentDate = timePtr(at)
	case StatusFinalized:
		i.FinalizedDate = timePtr(at)
	case StatusPaid:
		i.PaidDate = timePtr(at)
	case StatusVoid:
		i.VoidedDate = timePtr(at)
	}
}
