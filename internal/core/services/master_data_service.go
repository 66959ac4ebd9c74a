package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/platform/validation"
	"github.com/google/uuid"
)

// masterDataService manages records without a lifecycle: customers, vendors, the service
// catalog and inbound customer requests.
type masterDataService[T domain.Record] struct {
	BaseService
	resource string
	newDoc   func() T
	defaults func(T)
	repo     portsrepo.DocumentRepositoryFacade[T]
}

func newMasterDataService[T domain.Record](resource string, newDoc func() T, defaults func(T), repo portsrepo.DocumentRepositoryFacade[T], opts ...ServiceOption) *masterDataService[T] {
	return &masterDataService[T]{
		BaseService: newBaseService(opts...),
		resource:    resource,
		newDoc:      newDoc,
		defaults:    defaults,
		repo:        repo,
	}
}

// NewCustomerService creates the customer service.
func NewCustomerService(repo portsrepo.DocumentRepositoryFacade[*domain.Customer], opts ...ServiceOption) portssvc.MasterDataSvcFacade[*domain.Customer] {
	return newMasterDataService("customer", func() *domain.Customer { return &domain.Customer{} },
		func(c *domain.Customer) { c.IsActive = true }, repo, opts...)
}

// NewVendorService creates the vendor service.
func NewVendorService(repo portsrepo.DocumentRepositoryFacade[*domain.Vendor], opts ...ServiceOption) portssvc.MasterDataSvcFacade[*domain.Vendor] {
	return newMasterDataService("vendor", func() *domain.Vendor { return &domain.Vendor{} },
		func(v *domain.Vendor) { v.IsActive = true }, repo, opts...)
}

// NewCatalogService creates the service-catalog service.
func NewCatalogService(repo portsrepo.DocumentRepositoryFacade[*domain.Service], opts ...ServiceOption) portssvc.MasterDataSvcFacade[*domain.Service] {
	return newMasterDataService("service", func() *domain.Service { return &domain.Service{} },
		func(s *domain.Service) { s.IsActive = true }, repo, opts...)
}

// NewCustomerRequestService creates the customer request service.
func NewCustomerRequestService(repo portsrepo.DocumentRepositoryFacade[*domain.CustomerRequest], opts ...ServiceOption) portssvc.MasterDataSvcFacade[*domain.CustomerRequest] {
	return newMasterDataService("customer_request", func() *domain.CustomerRequest { return &domain.CustomerRequest{} },
		func(r *domain.CustomerRequest) { r.Status = "new" }, repo, opts...)
}

func (s *masterDataService[T]) Get(ctx context.Context, id string) (T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var zero T
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find record", slog.String("resource", s.resource), slog.String("id", id))
		}
		return zero, err
	}
	return rec, nil
}

// List retrieves a page of records. Records have no lifecycle column, so a status filter
// matches the record's own status field where it has one.
func (s *masterDataService[T]) List(ctx context.Context, params dto.ListParams) (dto.ListResponse[T], error) {
	match := make(map[string]string, len(params.Match)+1)
	for k, v := range params.Match {
		match[k] = v
	}
	if params.Status != "" {
		match["status"] = params.Status
	}
	items, next, err := s.repo.List(ctx, portsrepo.ListFilter{
		Match:     match,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list records", slog.String("resource", s.resource))
		return dto.ListResponse[T]{}, fmt.Errorf("failed to list %ss: %w", s.resource, err)
	}
	if items == nil {
		items = []T{}
	}
	return dto.ListResponse[T]{Items: items, NextToken: next}, nil
}

func (s *masterDataService[T]) Create(ctx context.Context, body dto.DocumentPatch, userID string) (T, error) {
	var zero T
	base := s.newDoc()
	if s.defaults != nil {
		s.defaults(base)
	}
	rec := s.newDoc()
	if _, err := applyPatch(base, rec, body, nil); err != nil {
		return zero, err
	}
	if err := validation.Struct(rec); err != nil {
		return zero, err
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to allocate %s number: %w", s.resource, err)
	}
	now := s.now()
	rec.SetID(uuid.NewString())
	rec.SetNumber(number)
	*rec.GetAudit() = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID, Version: 1}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.LogError(ctx, err, "Failed to save record", slog.String("resource", s.resource))
		return zero, err
	}
	s.LogInfo(ctx, "Record created", slog.String("resource", s.resource), slog.String("id", rec.GetID()))
	s.track(userID, s.resource+"_created", map[string]any{"id": rec.GetID()})
	return rec, nil
}

func (s *masterDataService[T]) Update(ctx context.Context, id string, body dto.DocumentPatch, userID string) (T, error) {
	var zero T
	current, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if raw, ok := body[patchKeyVersion]; ok {
		_, _, _, version, err := splitControlKeys(dto.DocumentPatch{patchKeyVersion: raw})
		if err != nil {
			return zero, err
		}
		if *version != current.GetAudit().Version {
			return zero, fmt.Errorf("%w: %s %s is at version %d, not %d", apperrors.ErrConflict, s.resource, id, current.GetAudit().Version, *version)
		}
	}

	rec := s.newDoc()
	if _, err := applyPatch(current, rec, body, nil); err != nil {
		return zero, err
	}
	if err := validation.Struct(rec); err != nil {
		return zero, err
	}

	audit := rec.GetAudit()
	expected := audit.Version
	audit.Version = expected + 1
	audit.LastUpdatedAt = s.now()
	audit.LastUpdatedBy = userID
	if err := s.repo.Update(ctx, rec, expected, nil); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update record", slog.String("resource", s.resource), slog.String("id", id))
		}
		return zero, err
	}
	return rec, nil
}

func (s *masterDataService[T]) Delete(ctx context.Context, id string, userID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete record", slog.String("resource", s.resource), slog.String("id", id))
		}
		return err
	}
	s.LogInfo(ctx, "Record deleted", slog.String("resource", s.resource), slog.String("id", id), slog.String("user_id", userID))
	return nil
}
