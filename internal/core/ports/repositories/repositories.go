package repositories

import "github.com/SscSPs/disposal_backoffice/internal/core/domain"

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	InvoiceRepo         DocumentRepositoryFacade[*domain.Invoice]
	EstimateRepo        DocumentRepositoryFacade[*domain.Estimate]
	JobRepo             DocumentRepositoryFacade[*domain.Job]
	ExpenseRepo         DocumentRepositoryFacade[*domain.Expense]
	AffidavitRepo       DocumentRepositoryFacade[*domain.Affidavit]
	CustomerRepo        DocumentRepositoryFacade[*domain.Customer]
	VendorRepo          DocumentRepositoryFacade[*domain.Vendor]
	ServiceRepo         DocumentRepositoryFacade[*domain.Service]
	CustomerRequestRepo DocumentRepositoryFacade[*domain.CustomerRequest]
}
