package services

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
)

type estimateService struct {
	*documentService[*domain.Estimate]
}

// NewEstimateService creates the estimate service.
func NewEstimateService(repo portsrepo.DocumentRepositoryFacade[*domain.Estimate], defaults PricingDefaults, opts ...ServiceOption) portssvc.DocumentSvcFacade[*domain.Estimate] {
	kind := documentKind[*domain.Estimate]{
		entityType: domain.EntityEstimate,
		newDoc:     func() *domain.Estimate { return &domain.Estimate{} },
		readOnly:   readOnlySet("sent_date", "accepted_date", "expired_date", "cancelled_date"),
		defaults: func(e *domain.Estimate) {
			applyPricingDefaults(&e.Pricing, defaults)
		},
		prepare: recomputePricing[*domain.Estimate],
	}
	return &estimateService{documentService: newDocumentService(kind, repo, opts...)}
}
