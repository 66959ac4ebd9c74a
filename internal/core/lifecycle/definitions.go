package lifecycle

import (
	"sync"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/utils/accounting"
)

// Document field names used by the status policies. Pricing fields live in the accounting package.
const (
	FieldNotes              = "notes"
	FieldDueDate            = "due_date"
	FieldDestructionMethod  = "destruction_method"
	FieldDescription        = "description"
	FieldScheduledDate      = "scheduled_date"
	FieldScheduledTime      = "scheduled_time"
	FieldServiceAddress     = "service_address"
	FieldMaterials          = "materials"
	FieldActualCompletionAt = "actual_completion_date"
)

var estimatePricingLock = AllFieldsExcept(
	accounting.FieldLineItems, accounting.FieldLineItemUnitPrice, accounting.FieldLineItemServiceID, accounting.FieldDiscount, accounting.FieldTaxRate,
)

var jobCoreLock = AllFieldsExcept(
	FieldDestructionMethod, FieldDescription, FieldScheduledDate, FieldScheduledTime, FieldServiceAddress, FieldMaterials,
)

// Definitions returns the state machines of every document type.
func Definitions() []EntityDefinition {
	return []EntityDefinition{
		{
			Type: domain.EntityInvoice,
			Statuses: []StatusDefinition{
				{Status: domain.StatusDraft, Editable: AllFields(), Next: []domain.Status{domain.StatusSent, domain.StatusVoid}},
				{Status: domain.StatusSent, Editable: AllFields(), Next: []domain.Status{domain.StatusFinalized, domain.StatusVoid}},
				{
					Status:   domain.StatusFinalized,
					Editable: OnlyFields(accounting.FieldLineItemQuantity, accounting.FieldLineItemSortOrder, FieldNotes, FieldDueDate, accounting.FieldAmountPaid),
					Next:     []domain.Status{domain.StatusPaid, domain.StatusVoid},
				},
				{Status: domain.StatusPaid, Editable: OnlyFields(accounting.FieldLineItemQuantity, accounting.FieldLineItemSortOrder, FieldNotes)},
				{Status: domain.StatusVoid, Editable: NoFields()},
			},
		},
		{
			Type: domain.EntityEstimate,
			Statuses: []StatusDefinition{
				{Status: domain.StatusDraft, Editable: AllFields(), Next: []domain.Status{domain.StatusSent}},
				{
					Status:   domain.StatusSent,
					Editable: estimatePricingLock,
					Next:     []domain.Status{domain.StatusAccepted, domain.StatusExpired, domain.StatusCancelled},
				},
				{Status: domain.StatusAccepted, Editable: estimatePricingLock},
				{Status: domain.StatusExpired, Editable: estimatePricingLock},
				{Status: domain.StatusCancelled, Editable: estimatePricingLock},
			},
		},
		{
			Type: domain.EntityJob,
			Statuses: []StatusDefinition{
				{Status: domain.StatusScheduled, Editable: AllFields(), Next: []domain.Status{domain.StatusInProgress, domain.StatusCompleted}},
				{Status: domain.StatusInProgress, Editable: AllFields(), Next: []domain.Status{domain.StatusCompleted}},
				{Status: domain.StatusCompleted, Editable: jobCoreLock, Next: []domain.Status{domain.StatusArchived}},
				{Status: domain.StatusArchived, Editable: NoFields()},
			},
		},
		{
			Type: domain.EntityExpense,
			Statuses: []StatusDefinition{
				{Status: domain.StatusDraft, Editable: AllFields(), Next: []domain.Status{domain.StatusSubmitted}},
				{Status: domain.StatusSubmitted, Editable: AllFields(), Next: []domain.Status{domain.StatusApproved}},
				{Status: domain.StatusApproved, Editable: NoFields(), Next: []domain.Status{domain.StatusArchived}},
				{Status: domain.StatusArchived, Editable: NoFields()},
			},
		},
		{
			Type: domain.EntityAffidavit,
			Statuses: []StatusDefinition{
				{Status: domain.StatusPending, Editable: AllFields(), Next: []domain.Status{domain.StatusIssued}},
				{Status: domain.StatusIssued, Editable: NoFields(), Next: []domain.Status{domain.StatusLocked, domain.StatusRevoked}},
				{Status: domain.StatusLocked, Editable: NoFields(), Next: []domain.Status{domain.StatusRevoked}},
				{Status: domain.StatusRevoked, Editable: NoFields()},
			},
		},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry built from Definitions.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustNewRegistry(Definitions()...)
	})
	return defaultRegistry
}
