package pgsql

import (
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	invoiceTable = tableSpec{
		table: "invoices", sequence: "invoice_number_seq", numberPrefix: "INV",
		entityType: domain.EntityInvoice,
		filterable: []string{"customer_id", "job_id", "estimate_id"},
	}
	estimateTable = tableSpec{
		table: "estimates", sequence: "estimate_number_seq", numberPrefix: "EST",
		entityType: domain.EntityEstimate,
		filterable: []string{"customer_id", "customer_request_id"},
	}
	jobTable = tableSpec{
		table: "jobs", sequence: "job_number_seq", numberPrefix: "JOB",
		entityType: domain.EntityJob,
		filterable: []string{"customer_id", "estimate_id", "assigned_to"},
	}
	expenseTable = tableSpec{
		table: "expenses", sequence: "expense_number_seq", numberPrefix: "EXP",
		entityType: domain.EntityExpense,
		filterable: []string{"vendor_id", "job_id", "category"},
	}
	affidavitTable = tableSpec{
		table: "affidavits", sequence: "affidavit_number_seq", numberPrefix: "AFF",
		entityType: domain.EntityAffidavit,
		filterable: []string{"job_id", "customer_id"},
	}
	customerTable = tableSpec{
		table: "customers", sequence: "customer_number_seq", numberPrefix: "CUS",
		filterable: []string{"is_active"},
	}
	vendorTable = tableSpec{
		table: "vendors", sequence: "vendor_number_seq", numberPrefix: "VEN",
		filterable: []string{"is_active"},
	}
	serviceTable = tableSpec{
		table: "services", sequence: "service_number_seq", numberPrefix: "SVC",
		filterable: []string{"is_active"},
	}
	customerRequestTable = tableSpec{
		table: "customer_requests", sequence: "customer_request_number_seq", numberPrefix: "REQ",
		filterable: []string{"customer_id", "status"},
	}
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo:         newPgxDocumentRepository(dbPool, invoiceTable, func() *domain.Invoice { return &domain.Invoice{} }),
		EstimateRepo:        newPgxDocumentRepository(dbPool, estimateTable, func() *domain.Estimate { return &domain.Estimate{} }),
		JobRepo:             newPgxDocumentRepository(dbPool, jobTable, func() *domain.Job { return &domain.Job{} }),
		ExpenseRepo:         newPgxDocumentRepository(dbPool, expenseTable, func() *domain.Expense { return &domain.Expense{} }),
		AffidavitRepo:       newPgxDocumentRepository(dbPool, affidavitTable, func() *domain.Affidavit { return &domain.Affidavit{} }),
		CustomerRepo:        newPgxDocumentRepository(dbPool, customerTable, func() *domain.Customer { return &domain.Customer{} }),
		VendorRepo:          newPgxDocumentRepository(dbPool, vendorTable, func() *domain.Vendor { return &domain.Vendor{} }),
		ServiceRepo:         newPgxDocumentRepository(dbPool, serviceTable, func() *domain.Service { return &domain.Service{} }),
		CustomerRequestRepo: newPgxDocumentRepository(dbPool, customerRequestTable, func() *domain.CustomerRequest { return &domain.CustomerRequest{} }),
	}
}
