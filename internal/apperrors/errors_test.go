package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestTransitionError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("save invoice: %w", apperrors.NewTransitionError("invoice", "paid", "draft"))

	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.False(t, errors.Is(err, apperrors.ErrPreconditionUnmet))

	var te *apperrors.TransitionError
	if assert.True(t, errors.As(err, &te)) {
		assert.Equal(t, "paid", te.From)
		assert.Equal(t, "draft", te.To)
	}
	assert.Contains(t, err.Error(), `"paid" to "draft"`)
}

func TestFieldLockedError_MatchesSentinel(t *testing.T) {
	err := &apperrors.FieldLockedError{EntityType: "estimate", Status: "sent", Field: "line_items.unit_price"}
	assert.ErrorIs(t, err, apperrors.ErrFieldLocked)
	assert.Contains(t, err.Error(), "line_items.unit_price")
}

func TestUpstream_KeepsBothCauses(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperrors.Upstream("smtp", cause)

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.ErrorIs(t, err, cause)
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to insert", apperrors.ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, "failed to insert: resource already exists", err.Error())
}
