package repositories

import (
	"context"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
)

// ListFilter narrows a document listing.
type ListFilter struct {
	// Status restricts results to one status when non-empty.
	Status string
	// Match restricts results to documents whose top-level body field equals the value,
	// e.g. {"customer_id": "..."}. Keys must be in the repository's filterable set.
	Match     map[string]string
	Limit     int
	NextToken string
}

// DocumentReader defines read operations for a document type.
type DocumentReader[T domain.Record] interface {
	// FindByID retrieves a document by its unique identifier.
	FindByID(ctx context.Context, id string) (T, error)

	// List retrieves a page of documents, newest first, plus the token for the next page ("" when done).
	List(ctx context.Context, filter ListFilter) ([]T, string, error)
}

// DocumentWriter defines write operations for a document type.
type DocumentWriter[T domain.Record] interface {
	// Create persists a new document with version 1.
	Create(ctx context.Context, doc T) error

	// Update overwrites the document if its stored version still equals expectedVersion and
	// appends events to the status history, all in one transaction. A stale version yields ErrConflict.
	Update(ctx context.Context, doc T, expectedVersion int64, events []domain.StatusEvent) error

	// Delete removes the document.
	Delete(ctx context.Context, id string) error
}

// StatusHistoryReader reads the status history of documents.
type StatusHistoryReader interface {
	// ListStatusEvents returns the events of one document, oldest first.
	ListStatusEvents(ctx context.Context, entityType domain.EntityType, documentID string) ([]domain.StatusEvent, error)
}

// NumberAllocator issues human-readable document numbers.
type NumberAllocator interface {
	// NextNumber returns the next number, e.g. INV-000042.
	NextNumber(ctx context.Context) (string, error)
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade[T domain.Record] interface {
	DocumentReader[T]
	DocumentWriter[T]
	StatusHistoryReader
	NumberAllocator
}
