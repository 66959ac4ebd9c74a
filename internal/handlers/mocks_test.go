package handlers_test

import (
	"context"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock document service ---
type MockDocumentService[T domain.Lifecycled] struct {
	mock.Mock
}

func (m *MockDocumentService[T]) Get(ctx context.Context, id string) (T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentService[T]) List(ctx context.Context, params dto.ListParams) (dto.ListResponse[T], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(dto.ListResponse[T]), args.Error(1)
}

func (m *MockDocumentService[T]) Create(ctx context.Context, body dto.DocumentPatch, userID string) (T, error) {
	args := m.Called(ctx, body, userID)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentService[T]) Update(ctx context.Context, id string, body dto.DocumentPatch, userID string) (T, error) {
	args := m.Called(ctx, id, body, userID)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentService[T]) Delete(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockDocumentService[T]) Transition(ctx context.Context, id string, req dto.TransitionRequest, userID string) (T, error) {
	args := m.Called(ctx, id, req, userID)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockDocumentService[T]) History(ctx context.Context, id string) ([]domain.StatusEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusEvent), args.Error(1)
}

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	MockDocumentService[*domain.Invoice]
}

func (m *MockInvoiceService) Send(ctx context.Context, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// --- Mock AffidavitService ---
type MockAffidavitService struct {
	MockDocumentService[*domain.Affidavit]
}

func (m *MockAffidavitService) Revoke(ctx context.Context, id string, req dto.RevokeRequest, userID string) (*domain.Affidavit, error) {
	args := m.Called(ctx, id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Affidavit), args.Error(1)
}

// --- Mock UploadService ---
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, req dto.UploadRequest, userID string) (dto.UploadResponse, error) {
	args := m.Called(ctx, req, userID)
	return args.Get(0).(dto.UploadResponse), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.InvoiceSvcFacade   = (*MockInvoiceService)(nil)
	_ portssvc.AffidavitSvcFacade = (*MockAffidavitService)(nil)
	_ portssvc.UploadSvc          = (*MockUploadService)(nil)
)
