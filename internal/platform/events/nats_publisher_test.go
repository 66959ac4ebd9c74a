package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockConn) Drain() error {
	return m.Called().Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishStatusChanged(t *testing.T) {
	nc := new(mockConn)
	p := newPublisher(nc, testLogger())
	ev := domain.StatusEvent{
		EventID:    "ev-1",
		EntityType: domain.EntityAffidavit,
		DocumentID: "aff-1",
		FromStatus: domain.StatusIssued,
		ToStatus:   domain.StatusRevoked,
		Reason:     "wrong job",
		Actor:      "user-1",
		OccurredAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	var published []byte
	nc.On("Publish", "documents.affidavit.revoked", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]byte)
	}).Return(nil).Once()

	require.NoError(t, p.PublishStatusChanged(context.Background(), ev))

	var got domain.StatusEvent
	require.NoError(t, json.Unmarshal(published, &got))
	assert.Equal(t, ev, got)
	nc.AssertExpectations(t)
}

func TestPublishStatusChanged_Errors(t *testing.T) {
	nc := new(mockConn)
	p := newPublisher(nc, testLogger())
	ev := domain.StatusEvent{EntityType: domain.EntityInvoice, ToStatus: domain.StatusPaid}

	nc.On("Publish", "documents.invoice.paid", mock.Anything).Return(errors.New("nats: connection closed")).Once()
	err := p.PublishStatusChanged(context.Background(), ev)
	assert.ErrorContains(t, err, "documents.invoice.paid")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishStatusChanged(ctx, ev), context.Canceled)
	nc.AssertNumberOfCalls(t, "Publish", 1)
}
