package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/platform/validation"
	"github.com/google/uuid"
)

// documentKind describes how one document type is built and prepared for saving.
type documentKind[T domain.Lifecycled] struct {
	entityType domain.EntityType
	newDoc     func() T
	// readOnly lists fields only the service itself may set, such as status timestamps.
	readOnly map[string]bool
	// defaults fills in values a new document starts with before the request body is applied.
	defaults func(doc T)
	// prepare normalizes the document and recomputes derived values before every save.
	prepare func(doc T) error
}

// documentService implements the operations shared by every status-bearing document.
type documentService[T domain.Lifecycled] struct {
	BaseService
	kind documentKind[T]
	repo portsrepo.DocumentRepositoryFacade[T]
}

func newDocumentService[T domain.Lifecycled](kind documentKind[T], repo portsrepo.DocumentRepositoryFacade[T], opts ...ServiceOption) *documentService[T] {
	return &documentService[T]{
		BaseService: newBaseService(opts...),
		kind:        kind,
		repo:        repo,
	}
}

func (s *documentService[T]) registry() *lifecycle.Registry {
	return s.lifecycle.Registry()
}

// Get retrieves a document by ID.
func (s *documentService[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var zero T
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find document", slog.String("entity", string(s.kind.entityType)), slog.String("id", id))
		}
		return zero, err
	}
	return doc, nil
}

// List retrieves a page of documents, optionally restricted to one status.
func (s *documentService[T]) List(ctx context.Context, params dto.ListParams) (dto.ListResponse[T], error) {
	if params.Status != "" && !s.registry().IsKnownStatus(s.kind.entityType, domain.Status(params.Status)) {
		return dto.ListResponse[T]{}, fmt.Errorf("%w: %q is not a %s status", apperrors.ErrValidation, params.Status, s.kind.entityType)
	}
	items, next, err := s.repo.List(ctx, portsrepo.ListFilter{
		Status:    params.Status,
		Match:     params.Match,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("entity", string(s.kind.entityType)))
		return dto.ListResponse[T]{}, fmt.Errorf("failed to list %ss: %w", s.kind.entityType, err)
	}
	if items == nil {
		items = []T{}
	}
	return dto.ListResponse[T]{Items: items, NextToken: next}, nil
}

// Create builds a document in its initial status from a partial body.
func (s *documentService[T]) Create(ctx context.Context, body dto.DocumentPatch, userID string) (T, error) {
	var zero T
	initial := s.registry().InitialStatus(s.kind.entityType)

	rest, target, _, _, err := splitControlKeys(body)
	if err != nil {
		return zero, err
	}
	if target != nil && *target != initial {
		return zero, fmt.Errorf("%w: a new %s starts in status %q", apperrors.ErrValidation, s.kind.entityType, initial)
	}

	base := s.kind.newDoc()
	base.SetStatus(initial)
	if s.kind.defaults != nil {
		s.kind.defaults(base)
	}
	doc := s.kind.newDoc()
	if _, err := applyPatch(base, doc, rest, s.kind.readOnly); err != nil {
		return zero, err
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate document number", slog.String("entity", string(s.kind.entityType)))
		return zero, fmt.Errorf("failed to allocate %s number: %w", s.kind.entityType, err)
	}
	now := s.now()
	doc.SetID(uuid.NewString())
	doc.SetNumber(number)
	*doc.GetAudit() = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
		Version:       1,
	}

	if err := s.validate(doc); err != nil {
		return zero, err
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document", slog.String("entity", string(s.kind.entityType)), slog.String("id", doc.GetID()))
		return zero, err
	}

	s.LogInfo(ctx, "Document created", slog.String("entity", string(s.kind.entityType)), slog.String("id", doc.GetID()), slog.String("number", number))
	s.track(userID, string(s.kind.entityType)+"_created", map[string]any{"id": doc.GetID()})
	return doc, nil
}

// Update applies a partial body. Field edits are checked against the status the document had
// when it was loaded; a "status" key moves the document in the same save.
func (s *documentService[T]) Update(ctx context.Context, id string, body dto.DocumentPatch, userID string) (T, error) {
	var zero T
	rest, target, reason, version, err := splitControlKeys(body)
	if err != nil {
		return zero, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if version != nil && *version != current.GetAudit().Version {
		return zero, fmt.Errorf("%w: %s %s is at version %d, not %d", apperrors.ErrConflict, s.kind.entityType, id, current.GetAudit().Version, *version)
	}

	doc := s.kind.newDoc()
	changed, err := applyPatch(current, doc, rest, s.kind.readOnly)
	if err != nil {
		return zero, err
	}
	if target != nil && *target == current.CurrentStatus() {
		target = nil
	}
	return s.save(ctx, doc, changed, target, reason, userID)
}

// Transition moves a document to another status without other edits.
func (s *documentService[T]) Transition(ctx context.Context, id string, req dto.TransitionRequest, userID string) (T, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	target := domain.Status(req.Status)
	return s.save(ctx, doc, nil, &target, req.Reason, userID)
}

// save guards the edits, applies the optional transition and persists everything atomically.
// doc still carries the status it was loaded with.
func (s *documentService[T]) save(ctx context.Context, doc T, changed []string, target *domain.Status, reason, userID string) (T, error) {
	var zero T
	entity := slog.String("entity", string(s.kind.entityType))

	if err := s.lifecycle.GuardChanges(s.kind.entityType, doc.CurrentStatus(), changed); err != nil {
		s.LogDebug(ctx, "Rejected edit of locked field", entity, slog.String("id", doc.GetID()), slog.String("error", err.Error()))
		return zero, err
	}
	if err := s.validate(doc); err != nil {
		return zero, err
	}

	var events []domain.StatusEvent
	if target != nil {
		var (
			ev  domain.StatusEvent
			err error
		)
		if *target == domain.StatusRevoked {
			ev, err = s.lifecycle.Revoke(doc, reason, userID)
		} else {
			ev, err = s.lifecycle.Transition(doc, *target, lifecycle.TransitionContext{Actor: userID, Reason: reason})
		}
		if err != nil {
			s.LogDebug(ctx, "Rejected status change", entity, slog.String("id", doc.GetID()), slog.String("error", err.Error()))
			return zero, err
		}
		events = append(events, ev)
	}

	audit := doc.GetAudit()
	expected := audit.Version
	audit.Version = expected + 1
	audit.LastUpdatedAt = s.now()
	audit.LastUpdatedBy = userID

	if err := s.repo.Update(ctx, doc, expected, events); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update document", entity, slog.String("id", doc.GetID()))
		}
		return zero, err
	}

	for _, ev := range events {
		s.publish(ctx, ev)
		s.track(userID, string(s.kind.entityType)+"_status_changed", map[string]any{
			"id":   doc.GetID(),
			"from": string(ev.FromStatus),
			"to":   string(ev.ToStatus),
		})
	}
	s.LogInfo(ctx, "Document updated", entity, slog.String("id", doc.GetID()), slog.String("status", string(doc.CurrentStatus())), slog.Int64("version", audit.Version))
	return doc, nil
}

// validate recomputes derived values and checks struct constraints.
func (s *documentService[T]) validate(doc T) error {
	if s.kind.prepare != nil {
		if err := s.kind.prepare(doc); err != nil {
			return err
		}
	}
	return validation.Struct(doc)
}

// publish announces a committed status change. Delivery failures are logged, never returned:
// the change is already durable.
func (s *documentService[T]) publish(ctx context.Context, ev domain.StatusEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatusChanged(ctx, ev); err != nil {
		s.LogError(ctx, err, "Failed to publish status event", slog.String("document_id", ev.DocumentID), slog.String("to", string(ev.ToStatus)))
	}
}

// Delete removes a document that is still in its initial status.
func (s *documentService[T]) Delete(ctx context.Context, id string, userID string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.CurrentStatus() != s.registry().InitialStatus(s.kind.entityType) {
		return &apperrors.FieldLockedError{EntityType: string(s.kind.entityType), Status: string(doc.CurrentStatus()), Field: "document"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete document", slog.String("entity", string(s.kind.entityType)), slog.String("id", id))
		}
		return err
	}
	s.LogInfo(ctx, "Document deleted", slog.String("entity", string(s.kind.entityType)), slog.String("id", id), slog.String("user_id", userID))
	return nil
}

// History lists the status changes of a document, oldest first.
func (s *documentService[T]) History(ctx context.Context, id string) ([]domain.StatusEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.repo.ListStatusEvents(ctx, s.kind.entityType, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to list status history", slog.String("entity", string(s.kind.entityType)), slog.String("id", id))
		return nil, fmt.Errorf("failed to list history of %s %s: %w", s.kind.entityType, id, err)
	}
	if events == nil {
		events = []domain.StatusEvent{}
	}
	return events, nil
}
