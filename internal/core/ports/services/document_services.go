package services

import (
	"context"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
)

// DocumentReaderSvc defines read operations for a resource
type DocumentReaderSvc[T domain.Record] interface {
	// Get retrieves a document by its unique identifier.
	Get(ctx context.Context, id string) (T, error)

	// List retrieves a page of documents.
	List(ctx context.Context, params dto.ListParams) (dto.ListResponse[T], error)
}

// DocumentWriterSvc defines write operations for a resource
type DocumentWriterSvc[T domain.Record] interface {
	// Create builds a new document from a partial body. Derived values are computed server-side.
	Create(ctx context.Context, body dto.DocumentPatch, userID string) (T, error)

	// Update applies a partial body. A "status" key bundles a transition into the same save.
	Update(ctx context.Context, id string, body dto.DocumentPatch, userID string) (T, error)

	// Delete removes a document that has not left its initial status.
	Delete(ctx context.Context, id string, userID string) error
}

// LifecycleSvc defines status operations for status-bearing documents
type LifecycleSvc[T domain.Lifecycled] interface {
	// Transition moves a document to another status.
	Transition(ctx context.Context, id string, req dto.TransitionRequest, userID string) (T, error)

	// History lists the status changes of a document, oldest first.
	History(ctx context.Context, id string) ([]domain.StatusEvent, error)
}

// DocumentSvcFacade combines all document service interfaces
type DocumentSvcFacade[T domain.Lifecycled] interface {
	DocumentReaderSvc[T]
	DocumentWriterSvc[T]
	LifecycleSvc[T]
}

// MasterDataSvcFacade is the service surface of records without a lifecycle
type MasterDataSvcFacade[T domain.Record] interface {
	DocumentReaderSvc[T]
	DocumentWriterSvc[T]
}

// InvoiceSvcFacade adds invoice delivery to the document operations
type InvoiceSvcFacade interface {
	DocumentSvcFacade[*domain.Invoice]

	// Send emails the invoice and moves a draft invoice to sent.
	Send(ctx context.Context, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error)
}

// AffidavitSvcFacade adds revocation to the document operations
type AffidavitSvcFacade interface {
	DocumentSvcFacade[*domain.Affidavit]

	// Revoke permanently invalidates an issued or locked affidavit.
	Revoke(ctx context.Context, id string, req dto.RevokeRequest, userID string) (*domain.Affidavit, error)
}

// TotalsSvc computes totals without persisting anything
type TotalsSvc interface {
	Preview(ctx context.Context, req dto.TotalsPreviewRequest) (dto.TotalsPreviewResponse, error)
}

// UploadSvc stores files attached to documents
type UploadSvc interface {
	Upload(ctx context.Context, req dto.UploadRequest, userID string) (dto.UploadResponse, error)
}
