package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"` // UserID Reference
	LastUpdatedAt time.Time `json:"updated_at"`
	LastUpdatedBy string    `json:"updated_by"` // UserID Reference
	Version       int64     `json:"version"`    // Incremented on every persisted update
}

// EntityType names a kind of status-bearing document.
type EntityType string

const (
	EntityInvoice   EntityType = "invoice"
	EntityEstimate  EntityType = "estimate"
	EntityJob       EntityType = "job"
	EntityExpense   EntityType = "expense"
	EntityAffidavit EntityType = "affidavit"
)

// Status is a lifecycle state. The set of valid values depends on the EntityType.
type Status string

const (
	// Invoice
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusFinalized Status = "finalized"
	StatusPaid      Status = "paid"
	StatusVoid      Status = "void"

	// Estimate (also uses draft and sent)
	StatusAccepted  Status = "accepted"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"

	// Job
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"

	// Expense (also uses draft and archived)
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"

	// Affidavit
	StatusPending Status = "pending"
	StatusIssued  Status = "issued"
	StatusLocked  Status = "locked"
	StatusRevoked Status = "revoked"
)

// Record is anything persisted by the document store.
type Record interface {
	GetID() string
	SetID(id string)
	GetNumber() string
	SetNumber(number string)
	GetAudit() *AuditFields
}

// Lifecycled is a Record that moves through a status state machine.
type Lifecycled interface {
	Record
	EntityType() EntityType
	CurrentStatus() Status
	SetStatus(s Status)
	// StampStatus records the entry timestamp for the given status.
	StampStatus(s Status, at time.Time)
}

// Document is the common header shared by every status-bearing record.
type Document struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Status Status `json:"status"`
	AuditFields
}

func (d *Document) GetID() string           { return d.ID }
func (d *Document) SetID(id string)         { d.ID = id }
func (d *Document) GetNumber() string       { return d.Number }
func (d *Document) SetNumber(number string) { d.Number = number }
func (d *Document) GetAudit() *AuditFields  { return &d.AuditFields }
func (d *Document) CurrentStatus() Status   { return d.Status }
func (d *Document) SetStatus(s Status)      { d.Status = s }

// StatusEvent is one entry of a document's status history.
type StatusEvent struct {
	EventID    string     `json:"event_id"`
	EntityType EntityType `json:"entity_type"`
	DocumentID string     `json:"document_id"`
	FromStatus Status     `json:"from_status"`
	ToStatus   Status     `json:"to_status"`
	Reason     string     `json:"reason,omitempty"`
	Actor      string     `json:"actor"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func timePtr(t time.Time) *time.Time {
	return &t
}
