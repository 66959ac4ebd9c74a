package services_test

import (
	"context"
	"io"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock type for the DocumentRepositoryFacade interface
type MockDocumentRepository[T domain.Record] struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade[*domain.Invoice] = (*MockDocumentRepository[*domain.Invoice])(nil)

func (m *MockDocumentRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentRepository[T]) List(ctx context.Context, filter portsrepo.ListFilter) ([]T, string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]T), args.String(1), args.Error(2)
}

func (m *MockDocumentRepository[T]) Create(ctx context.Context, doc T) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository[T]) Update(ctx context.Context, doc T, expectedVersion int64, events []domain.StatusEvent) error {
	args := m.Called(ctx, doc, expectedVersion, events)
	return args.Error(0)
}

func (m *MockDocumentRepository[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository[T]) ListStatusEvents(ctx context.Context, entityType domain.EntityType, documentID string) ([]domain.StatusEvent, error) {
	args := m.Called(ctx, entityType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusEvent), args.Error(1)
}

func (m *MockDocumentRepository[T]) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockMailer is a mock type for the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg portssvc.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPublisher is a mock type for the EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockUploader is a mock type for the Uploader interface
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, name, contentType, r)
	return args.String(0), args.Error(1)
}
