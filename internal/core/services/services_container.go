package services

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
)

// Collaborators are the external systems the services talk to. Nil publisher or analytics
// disable those features; a nil mailer makes invoice sending fail with an upstream error.
type Collaborators struct {
	Uploader       portssvc.Uploader
	Mailer         portssvc.Mailer
	Events         portssvc.EventPublisher
	Analytics      portssvc.Analytics
	MaxUploadBytes int64
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, collab Collaborators, pricing PricingDefaults) *portssvc.ServiceContainer {
	registry := lifecycle.DefaultRegistry()
	opts := []ServiceOption{
		WithLifecycle(lifecycle.NewController(registry)),
		WithEventPublisher(collab.Events),
		WithAnalytics(collab.Analytics),
	}

	return &portssvc.ServiceContainer{
		Invoice:         NewInvoiceService(repos.InvoiceRepo, collab.Mailer, pricing, opts...),
		Estimate:        NewEstimateService(repos.EstimateRepo, pricing, opts...),
		Job:             NewJobService(repos.JobRepo, opts...),
		Expense:         NewExpenseService(repos.ExpenseRepo, opts...),
		Affidavit:       NewAffidavitService(repos.AffidavitRepo, opts...),
		Customer:        NewCustomerService(repos.CustomerRepo, opts...),
		Vendor:          NewVendorService(repos.VendorRepo, opts...),
		Service:         NewCatalogService(repos.ServiceRepo, opts...),
		CustomerRequest: NewCustomerRequestService(repos.CustomerRequestRepo, opts...),
		Totals:          NewTotalsService(pricing, opts...),
		Upload:          NewUploadService(collab.Uploader, collab.MaxUploadBytes, opts...),
		Registry:        registry,
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.InvoiceSvcFacade   = (*invoiceService)(nil)
	_ portssvc.AffidavitSvcFacade = (*affidavitService)(nil)
	_ portssvc.TotalsSvc          = (*totalsService)(nil)
	_ portssvc.UploadSvc          = (*uploadService)(nil)
)
