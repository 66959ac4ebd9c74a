package accounting

import (
	"testing"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockAll(locked ...string) FieldGuard {
	return func(field string) error {
		for _, f := range locked {
			if f == field {
				return &apperrors.FieldLockedError{EntityType: "invoice", Status: "finalized", Field: field}
			}
		}
		return nil
	}
}

func TestLineItems_TotalTracksMutations(t *testing.T) {
	l := NewLineItems(nil)
	assert.True(t, l.Total().IsZero())

	first, err := l.Add(domain.LineItem{Description: "shred", Quantity: d("3"), UnitPrice: d("10")})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, first.SortOrder)

	second, err := l.Add(domain.LineItem{Description: "pickup", Quantity: d("1"), UnitPrice: d("15.50")})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SortOrder)
	assertDecimal(t, "45.5", l.Total(), "after add")

	require.NoError(t, l.SetQuantity(first.ID, d("4")))
	assertDecimal(t, "55.5", l.Total(), "after quantity change")

	require.NoError(t, l.SetUnitPrice(second.ID, d("20")))
	assertDecimal(t, "60", l.Total(), "after price change")

	require.NoError(t, l.Remove(first.ID))
	assertDecimal(t, "20", l.Total(), "after remove")
	assert.Equal(t, 1, l.Len())
}

func TestLineItems_ReorderLeavesTotal(t *testing.T) {
	l := NewLineItems([]domain.LineItem{
		{ID: "a", Quantity: d("1"), UnitPrice: d("1"), SortOrder: 1},
		{ID: "b", Quantity: d("2"), UnitPrice: d("2"), SortOrder: 2},
		{ID: "c", Quantity: d("3"), UnitPrice: d("3"), SortOrder: 3},
	})
	before := l.Total()

	require.NoError(t, l.Reorder([]string{"c", "a", "b"}))

	items := l.Items()
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.True(t, before.Equal(l.Total()))

	assert.ErrorIs(t, l.Reorder([]string{"a", "b"}), apperrors.ErrValidation)
	assert.ErrorIs(t, l.Reorder([]string{"a", "a", "b"}), apperrors.ErrValidation)
	assert.ErrorIs(t, l.Reorder([]string{"a", "b", "z"}), apperrors.ErrNotFound)
}

func TestLineItems_RejectsNegativeQuantity(t *testing.T) {
	l := NewLineItems(nil)
	_, err := l.Add(domain.LineItem{Quantity: d("-1"), UnitPrice: d("5")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLineItems_GuardBlocksLockedFields(t *testing.T) {
	l := NewLineItems(
		[]domain.LineItem{{ID: "a", Quantity: d("2"), UnitPrice: d("10"), SortOrder: 1}},
		WithFieldGuard(lockAll(FieldLineItems, FieldLineItemUnitPrice)),
	)

	_, err := l.Add(domain.LineItem{Quantity: d("1"), UnitPrice: d("1")})
	assert.ErrorIs(t, err, apperrors.ErrFieldLocked)

	err = l.SetUnitPrice("a", d("12"))
	assert.ErrorIs(t, err, apperrors.ErrFieldLocked)

	// unchanged value is not an edit
	assert.NoError(t, l.SetUnitPrice("a", d("10.00")))

	require.NoError(t, l.SetQuantity("a", d("3")))
	assertDecimal(t, "30", l.Total(), "quantity stays editable")

	assert.ErrorIs(t, l.Remove("a"), apperrors.ErrFieldLocked)
}

func TestAdjustments(t *testing.T) {
	a := NewAdjustments(nil, nil)

	_, err := a.Add(domain.Adjustment{AdjustmentType: domain.AdjustmentFuelSurcharge, Amount: d("12.5"), Reason: "fuel"})
	require.NoError(t, err)
	credit, err := a.Add(domain.Adjustment{AdjustmentType: domain.AdjustmentCredit, Amount: d("-2.5"), Reason: " goodwill "})
	require.NoError(t, err)
	assert.Equal(t, "goodwill", credit.Reason)
	assertDecimal(t, "10", a.Total(), "adjustments total")

	_, err = a.Add(domain.Adjustment{AdjustmentType: domain.AdjustmentLabor, Amount: d("5")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = a.Add(domain.Adjustment{AdjustmentType: "tip", Amount: d("5"), Reason: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, a.Remove(credit.ID))
	assertDecimal(t, "12.5", a.Total(), "after remove")
	assert.ErrorIs(t, a.Remove("missing"), apperrors.ErrNotFound)
}

func TestAdjustments_Guarded(t *testing.T) {
	a := NewAdjustments(nil, lockAll(FieldAdjustments))
	_, err := a.Add(domain.Adjustment{AdjustmentType: domain.AdjustmentOther, Amount: d("1"), Reason: "r"})
	assert.ErrorIs(t, err, apperrors.ErrFieldLocked)
}

func TestLineItems_QuantityChangeMovesSubtotalByDelta(t *testing.T) {
	l := NewLineItems([]domain.LineItem{
		{ID: "shred", Quantity: d("2"), UnitPrice: d("10"), SortOrder: 1},
		{ID: "pickup", Quantity: d("1"), UnitPrice: d("35"), SortOrder: 2},
	})
	before := l.Total()
	assertDecimal(t, "55", before, "subtotal before")

	require.NoError(t, l.SetQuantity("shred", d("5")))

	item, ok := l.Get("shred")
	require.True(t, ok)
	assertDecimal(t, "50", item.LineTotal, "line total")
	assertDecimal(t, "30", l.Total().Sub(before), "subtotal delta")
}

func TestLineItems_ZeroQuantity(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.LineItem
		subtotal string
	}{
		{
			name:     "only item",
			items:    []domain.LineItem{{Description: "no-show visit", Quantity: d("0"), UnitPrice: d("75")}},
			subtotal: "0",
		},
		{
			name: "alongside others",
			items: []domain.LineItem{
				{Description: "shred", Quantity: d("3"), UnitPrice: d("10")},
				{Description: "no-show visit", Quantity: d("0"), UnitPrice: d("75")},
			},
			subtotal: "30",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLineItems(nil)
			for _, it := range tt.items {
				added, err := l.Add(it)
				require.NoError(t, err)
				if it.Quantity.IsZero() {
					assert.True(t, added.LineTotal.IsZero())
				}
			}
			assertDecimal(t, tt.subtotal, l.Total(), "aggregator subtotal")

			p := &domain.Pricing{LineItems: tt.items, TaxRate: d("8")}
			require.NoError(t, Recompute(p))
			assertDecimal(t, tt.subtotal, p.Totals.Subtotal, "recomputed subtotal")
			for _, it := range p.LineItems {
				if it.Quantity.IsZero() {
					assert.True(t, it.LineTotal.IsZero())
				}
			}
		})
	}
}
