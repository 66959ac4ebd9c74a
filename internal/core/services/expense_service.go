package services

import (
	"fmt"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
)

type expenseService struct {
	*documentService[*domain.Expense]
}

// NewExpenseService creates the expense service.
func NewExpenseService(repo portsrepo.DocumentRepositoryFacade[*domain.Expense], opts ...ServiceOption) portssvc.DocumentSvcFacade[*domain.Expense] {
	kind := documentKind[*domain.Expense]{
		entityType: domain.EntityExpense,
		newDoc:     func() *domain.Expense { return &domain.Expense{} },
		readOnly:   readOnlySet("submitted_date", "approved_date", "archived_date"),
		prepare: func(e *domain.Expense) error {
			if e.Amount.IsNegative() {
				return errNegative("expense amount")
			}
			return nil
		},
	}
	return &expenseService{documentService: newDocumentService(kind, repo, opts...)}
}

func errNegative(what string) error {
	return fmt.Errorf("%w: %s cannot be negative", apperrors.ErrValidation, what)
}
