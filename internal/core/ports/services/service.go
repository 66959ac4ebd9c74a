package services

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Invoice         InvoiceSvcFacade
	Estimate        DocumentSvcFacade[*domain.Estimate]
	Job             DocumentSvcFacade[*domain.Job]
	Expense         DocumentSvcFacade[*domain.Expense]
	Affidavit       AffidavitSvcFacade
	Customer        MasterDataSvcFacade[*domain.Customer]
	Vendor          MasterDataSvcFacade[*domain.Vendor]
	Service         MasterDataSvcFacade[*domain.Service]
	CustomerRequest MasterDataSvcFacade[*domain.CustomerRequest]
	Totals          TotalsSvc
	Upload          UploadSvc

	// Registry is the status rule set the services enforce; handlers expose it read-only.
	Registry *lifecycle.Registry
}
