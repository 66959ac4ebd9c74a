package domain

import "time"

// Estimate is a priced proposal that may later be converted into a job and an invoice.
type Estimate struct {
	Document
	Pricing
	CustomerID        string     `json:"customer_id" validate:"required"`
	CustomerRequestID string     `json:"customer_request_id,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	SentDate          *time.Time `json:"sent_date,omitempty"`
	AcceptedDate      *time.Time `json:"accepted_date,omitempty"`
	ExpiredDate       *time.Time `json:"expired_date,omitempty"`
	CancelledDate     *time.Time `json:"cancelled_date,omitempty"`
}

func (e *Estimate) EntityType() EntityType { return EntityEstimate }

func (e *Estimate) StampStatus(s Status, at time.Time) {
	switch s {
	case StatusSent:
		e.SentDate = timePtr(at)
	case StatusAccepted:
		e.AcceptedDate = timePtr(at)
	case StatusExpired:
		e.ExpiredDate = timePtr(at)
	case StatusCancelled:
		e.CancelledDate = timePtr(at)
	}
}
