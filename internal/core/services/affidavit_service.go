package services

import (
	"context"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
)

type affidavitService struct {
	*documentService[*domain.Affidavit]
}

// NewAffidavitService creates the affidavit service.
func NewAffidavitService(repo portsrepo.DocumentRepositoryFacade[*domain.Affidavit], opts ...ServiceOption) portssvc.AffidavitSvcFacade {
	kind := documentKind[*domain.Affidavit]{
		entityType: domain.EntityAffidavit,
		newDoc:     func() *domain.Affidavit { return &domain.Affidavit{} },
		readOnly:   readOnlySet("date_issued", "locked_timestamp", "revoked_timestamp", "revocation_reason"),
	}
	return &affidavitService{documentService: newDocumentService(kind, repo, opts...)}
}

// Revoke permanently invalidates an issued or locked affidavit. The record stays readable.
func (s *affidavitService) Revoke(ctx context.Context, id string, req dto.RevokeRequest, userID string) (*domain.Affidavit, error) {
	aff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target := domain.StatusRevoked
	return s.save(ctx, aff, nil, &target, req.Reason, userID)
}
