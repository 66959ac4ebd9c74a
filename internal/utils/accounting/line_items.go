package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pseudo field names used when checking child-collection edits against field locks.
const (
	FieldLineItems           = "line_items"
	FieldLineItemQuantity    = "line_items.quantity"
	FieldLineItemUnitPrice   = "line_items.unit_price"
	FieldLineItemDescription = "line_items.description"
	FieldLineItemServiceID   = "line_items.service_id"
	FieldLineItemSortOrder   = "line_items.sort_order"
	FieldAdjustments         = "adjustments"
	FieldDiscount            = "discount"
	FieldTaxRate             = "tax_rate"
	FieldShippingAmount      = "shipping_amount"
	FieldAmountPaid          = "amount_paid"
)

// FieldGuard reports whether a field may be changed. It returns nil when the change is allowed.
type FieldGuard func(field string) error

// LineItemPatch carries the fields of a line item to change. Nil means unchanged.
type LineItemPatch struct {
	Description *string
	ServiceID   *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
}

// LineItems aggregates a document's line items and caches their subtotal.
// It is not safe for concurrent use; each request builds its own.
type LineItems struct {
	items    []domain.LineItem
	guard    FieldGuard
	subtotal decimal.Decimal
	valid    bool
}

// LineItemsOption configures a LineItems aggregator.
type LineItemsOption func(*LineItems)

// WithFieldGuard makes every mutation consult guard before applying.
func WithFieldGuard(guard FieldGuard) LineItemsOption {
	return func(l *LineItems) {
		l.guard = guard
	}
}

// NewLineItems builds an aggregator over a copy of items. Stored line totals are never
// trusted: each one is recomputed from quantity and unit price.
func NewLineItems(items []domain.LineItem, opts ...LineItemsOption) *LineItems {
	l := &LineItems{items: make([]domain.LineItem, len(items))}
	copy(l.items, items)
	for i := range l.items {
		l.items[i].LineTotal = lineTotal(l.items[i])
	}
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].SortOrder < l.items[j].SortOrder
	})
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func lineTotal(item domain.LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}

func (l *LineItems) check(field string) error {
	if l.guard == nil {
		return nil
	}
	return l.guard(field)
}

func (l *LineItems) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends an item, assigning an ID and the next sort order when missing.
func (l *LineItems) Add(item domain.LineItem) (domain.LineItem, error) {
	if err := l.check(FieldLineItems); err != nil {
		return domain.LineItem{}, err
	}
	if item.Quantity.IsNegative() {
		return domain.LineItem{}, fmt.Errorf("%w: line item quantity cannot be negative", apperrors.ErrValidation)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	} else if l.indexOf(item.ID) >= 0 {
		return domain.LineItem{}, fmt.Errorf("%w: line item %s", apperrors.ErrDuplicate, item.ID)
	}
	if item.SortOrder == 0 {
		item.SortOrder = l.nextSortOrder()
	}
	item.LineTotal = lineTotal(item)
	l.items = append(l.items, item)
	l.valid = false
	return item, nil
}

func (l *LineItems) nextSortOrder() int {
	next := 1
	for _, it := range l.items {
		if it.SortOrder >= next {
			next = it.SortOrder + 1
		}
	}
	return next
}

// Update applies patch to the item with the given id. Only fields whose value actually
// changes are checked against the guard.
func (l *LineItems) Update(id string, patch LineItemPatch) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("line item %s: %w", id, apperrors.ErrNotFound)
	}
	item := l.items[idx]

	if patch.Description != nil && *patch.Description != item.Description {
		if err := l.check(FieldLineItemDescription); err != nil {
			return err
		}
		item.Description = *patch.Description
	}
	if patch.ServiceID != nil && *patch.ServiceID != item.ServiceID {
		if err := l.check(FieldLineItemServiceID); err != nil {
			return err
		}
		item.ServiceID = *patch.ServiceID
	}
	if patch.Quantity != nil && !patch.Quantity.Equal(item.Quantity) {
		if err := l.check(FieldLineItemQuantity); err != nil {
			return err
		}
		if patch.Quantity.IsNegative() {
			return fmt.Errorf("%w: line item quantity cannot be negative", apperrors.ErrValidation)
		}
		item.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil && !patch.UnitPrice.Equal(item.UnitPrice) {
		if err := l.check(FieldLineItemUnitPrice); err != nil {
			return err
		}
		item.UnitPrice = *patch.UnitPrice
	}

	newTotal := lineTotal(item)
	if !newTotal.Equal(item.LineTotal) {
		l.valid = false
	}
	item.LineTotal = newTotal
	l.items[idx] = item
	return nil
}

// SetQuantity is shorthand for an Update that only changes the quantity.
func (l *LineItems) SetQuantity(id string, quantity decimal.Decimal) error {
	return l.Update(id, LineItemPatch{Quantity: &quantity})
}

// SetUnitPrice is shorthand for an Update that only changes the unit price.
func (l *LineItems) SetUnitPrice(id string, unitPrice decimal.Decimal) error {
	return l.Update(id, LineItemPatch{UnitPrice: &unitPrice})
}

// Remove deletes the item with the given id.
func (l *LineItems) Remove(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("line item %s: %w", id, apperrors.ErrNotFound)
	}
	if err := l.check(FieldLineItems); err != nil {
		return err
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.valid = false
	return nil
}

// Reorder assigns sort orders following ids, which must name every item exactly once.
// Totals are unaffected.
func (l *LineItems) Reorder(ids []string) error {
	if len(ids) != len(l.items) {
		return fmt.Errorf("%w: reorder needs all %d line item ids, got %d", apperrors.ErrValidation, len(l.items), len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: line item %s listed twice", apperrors.ErrValidation, id)
		}
		if l.indexOf(id) < 0 {
			return fmt.Errorf("line item %s: %w", id, apperrors.ErrNotFound)
		}
		seen[id] = true
	}
	if err := l.check(FieldLineItemSortOrder); err != nil {
		return err
	}

	position := make(map[string]int, len(ids))
	for i, id := range ids {
		position[id] = i + 1
	}
	for i := range l.items {
		l.items[i].SortOrder = position[l.items[i].ID]
	}
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].SortOrder < l.items[j].SortOrder
	})
	return nil
}

// Total returns the sum of all line totals, recomputing only when the cache is stale.
func (l *LineItems) Total() decimal.Decimal {
	if l.valid {
		return l.subtotal
	}
	sum := decimal.Zero
	for _, it := range l.items {
		sum = sum.Add(it.LineTotal)
	}
	l.subtotal = sum
	l.valid = true
	return sum
}

// Items returns a copy of the items in sort order.
func (l *LineItems) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the item with the given id.
func (l *LineItems) Get(id string) (domain.LineItem, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	return l.items[idx], true
}

// Len returns the number of items.
func (l *LineItems) Len() int {
	return len(l.items)
}
