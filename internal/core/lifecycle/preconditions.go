package lifecycle

import (
	"fmt"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
)

type registeredPrecondition struct {
	entityType domain.EntityType
	target     domain.Status
	check      Precondition
}

func builtinPreconditions() []registeredPrecondition {
	return []registeredPrecondition{
		{domain.EntityJob, domain.StatusCompleted, jobHasCompletionDate},
		{domain.EntityInvoice, domain.StatusSent, hasLineItems},
		{domain.EntityEstimate, domain.StatusSent, hasLineItems},
		{domain.EntityInvoice, domain.StatusPaid, invoiceSettled},
		{domain.EntityExpense, domain.StatusSubmitted, expenseHasAmount},
		{domain.EntityAffidavit, domain.StatusIssued, affidavitHasDestruction},
	}
}

func unmet(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrPreconditionUnmet, fmt.Sprintf(format, args...))
}

func jobHasCompletionDate(doc domain.Lifecycled, _ TransitionContext) error {
	job, ok := doc.(*domain.Job)
	if !ok {
		return unmet("expected a job, got %T", doc)
	}
	if job.ActualCompletionDate == nil || job.ActualCompletionDate.IsZero() {
		return unmet("job %s needs an actual completion date before it can be completed", job.ID)
	}
	return nil
}

func hasLineItems(doc domain.Lifecycled, _ TransitionContext) error {
	priced, ok := doc.(domain.Priced)
	if !ok {
		return unmet("%s does not carry line items", doc.EntityType())
	}
	if len(priced.GetPricing().LineItems) == 0 {
		return unmet("%s %s has no line items", doc.EntityType(), doc.GetID())
	}
	return nil
}

func invoiceSettled(doc domain.Lifecycled, _ TransitionContext) error {
	inv, ok := doc.(*domain.Invoice)
	if !ok {
		return unmet("expected an invoice, got %T", doc)
	}
	if inv.Totals.BalanceDue.IsPositive() {
		return unmet("invoice %s still has a balance due of %s", inv.ID, inv.Totals.BalanceDue.StringFixed(2))
	}
	return nil
}

func expenseHasAmount(doc domain.Lifecycled, _ TransitionContext) error {
	exp, ok := doc.(*domain.Expense)
	if !ok {
		return unmet("expected an expense, got %T", doc)
	}
	if !exp.Amount.IsPositive() {
		return unmet("expense %s needs a positive amount before submission", exp.ID)
	}
	return nil
}

func affidavitHasDestruction(doc domain.Lifecycled, _ TransitionContext) error {
	aff, ok := doc.(*domain.Affidavit)
	if !ok {
		return unmet("expected an affidavit, got %T", doc)
	}
	if aff.JobID == "" {
		return unmet("affidavit %s must reference a job before it is issued", aff.ID)
	}
	if aff.DestructionDate == nil || aff.DestructionDate.IsZero() {
		return unmet("affidavit %s needs a destruction date before it is issued", aff.ID)
	}
	return nil
}
