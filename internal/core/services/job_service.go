package services

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/google/uuid"
)

type jobService struct {
	*documentService[*domain.Job]
}

// NewJobService creates the job service.
func NewJobService(repo portsrepo.DocumentRepositoryFacade[*domain.Job], opts ...ServiceOption) portssvc.DocumentSvcFacade[*domain.Job] {
	kind := documentKind[*domain.Job]{
		entityType: domain.EntityJob,
		newDoc:     func() *domain.Job { return &domain.Job{} },
		readOnly:   readOnlySet("started_timestamp", "completed_timestamp", "archived_timestamp"),
		defaults: func(j *domain.Job) {
			j.Materials = []domain.Material{}
		},
		prepare: prepareJob,
	}
	return &jobService{documentService: newDocumentService(kind, repo, opts...)}
}

func prepareJob(j *domain.Job) error {
	if j.Materials == nil {
		j.Materials = []domain.Material{}
	}
	for i := range j.Materials {
		if j.Materials[i].ID == "" {
			j.Materials[i].ID = uuid.NewString()
		}
		if j.Materials[i].Quantity.IsNegative() {
			return errNegative("material quantity")
		}
	}
	return nil
}
