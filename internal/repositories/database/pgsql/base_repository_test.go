package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// stubTx fails Commit and Rollback with err; every other method is left to the embedded nil Tx.
type stubTx struct {
	pgx.Tx
	err error
}

func (t stubTx) Commit(context.Context) error   { return t.err }
func (t stubTx) Rollback(context.Context) error { return t.err }

func TestPersistenceError_IsUpstreamFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := persistenceError("failed to list invoices", cause)

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "persistence")
	assert.Contains(t, err.Error(), "failed to list invoices")

	var appErr *apperrors.AppError
	assert.False(t, errors.As(err, &appErr), "database failures must not surface as a bare internal AppError")
}

func TestCommit_FailureIsUpstream(t *testing.T) {
	repo := &BaseRepository{}
	cause := errors.New("server closed the connection unexpectedly")

	err := repo.Commit(context.Background(), stubTx{err: cause})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.ErrorIs(t, err, cause)
}

func TestRollback(t *testing.T) {
	repo := &BaseRepository{}

	assert.NoError(t, repo.Rollback(context.Background(), stubTx{err: pgx.ErrTxClosed}))
	assert.NoError(t, repo.Rollback(context.Background(), stubTx{}))

	cause := errors.New("broken pipe")
	err := repo.Rollback(context.Background(), stubTx{err: cause})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.ErrorIs(t, err, cause)
}
