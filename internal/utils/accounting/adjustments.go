package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/platform/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adjustments aggregates a document's signed charges and credits.
type Adjustments struct {
	items []domain.Adjustment
	guard FieldGuard
}

// NewAdjustments builds an aggregator over a copy of items.
func NewAdjustments(items []domain.Adjustment, guard FieldGuard) *Adjustments {
	a := &Adjustments{items: make([]domain.Adjustment, len(items)), guard: guard}
	copy(a.items, items)
	return a
}

// ValidateAdjustment enforces the audit requirement: a known type and a non-blank reason.
func ValidateAdjustment(adj domain.Adjustment) error {
	if err := validation.Struct(adj); err != nil {
		return fmt.Errorf("adjustment %s: %w", adj.ID, err)
	}
	return nil
}

// Add validates and appends an adjustment.
func (a *Adjustments) Add(adj domain.Adjustment) (domain.Adjustment, error) {
	if a.guard != nil {
		if err := a.guard(FieldAdjustments); err != nil {
			return domain.Adjustment{}, err
		}
	}
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	adj.Reason = strings.TrimSpace(adj.Reason)
	if err := ValidateAdjustment(adj); err != nil {
		return domain.Adjustment{}, err
	}
	a.items = append(a.items, adj)
	return adj, nil
}

// Remove deletes the adjustment with the given id.
func (a *Adjustments) Remove(id string) error {
	for i := range a.items {
		if a.items[i].ID != id {
			continue
		}
		if a.guard != nil {
			if err := a.guard(FieldAdjustments); err != nil {
				return err
			}
		}
		a.items = append(a.items[:i], a.items[i+1:]...)
		return nil
	}
	return fmt.Errorf("adjustment %s: %w", id, apperrors.ErrNotFound)
}

// Validate checks every adjustment currently held.
func (a *Adjustments) Validate() error {
	for _, adj := range a.items {
		if err := ValidateAdjustment(adj); err != nil {
			return err
		}
	}
	return nil
}

// Total returns the signed sum of all adjustment amounts.
func (a *Adjustments) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, adj := range a.items {
		sum = sum.Add(adj.Amount)
	}
	return sum
}

// Items returns a copy of the adjustments.
func (a *Adjustments) Items() []domain.Adjustment {
	out := make([]domain.Adjustment, len(a.items))
	copy(out, a.items)
	return out
}
