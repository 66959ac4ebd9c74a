package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/utils"
)

type invoiceService struct {
	*documentService[*domain.Invoice]
	mailer portssvc.Mailer
}

// NewInvoiceService creates the invoice service. mailer delivers invoices sent to customers.
func NewInvoiceService(repo portsrepo.DocumentRepositoryFacade[*domain.Invoice], mailer portssvc.Mailer, defaults PricingDefaults, opts ...ServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{mailer: mailer}
	kind := documentKind[*domain.Invoice]{
		entityType: domain.EntityInvoice,
		newDoc:     func() *domain.Invoice { return &domain.Invoice{} },
		readOnly:   readOnlySet("sent_date", "finalized_date", "paid_date", "voided_date"),
		defaults: func(inv *domain.Invoice) {
			applyPricingDefaults(&inv.Pricing, defaults)
			issued := svc.now()
			inv.IssueDate = &issued
		},
		prepare: recomputePricing[*domain.Invoice],
	}
	svc.documentService = newDocumentService(kind, repo, opts...)
	return svc
}

// Send emails the invoice. A draft invoice moves to sent once the email is accepted for delivery;
// if delivery fails the status is left unchanged.
func (s *invoiceService) Send(ctx context.Context, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error) {
	inv, err := s.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	moveToSent := inv.Status == domain.StatusDraft
	switch {
	case moveToSent:
		if err := s.lifecycle.Check(inv, domain.StatusSent, lifecycle.TransitionContext{Actor: userID}); err != nil {
			return nil, err
		}
	case inv.Status == domain.StatusVoid:
		return nil, apperrors.NewTransitionError(string(domain.EntityInvoice), string(inv.Status), string(domain.StatusSent))
	}

	if s.mailer == nil {
		return nil, apperrors.Upstream("email", fmt.Errorf("no mailer configured"))
	}
	msg := portssvc.MailMessage{
		To:      req.Email,
		Subject: fmt.Sprintf("Invoice %s", inv.Number),
		Body:    renderInvoiceEmail(inv, req.Message),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.LogError(ctx, err, "Failed to email invoice", slog.String("invoice_id", inv.ID), slog.String("to", req.Email))
		return nil, apperrors.Upstream("email", err)
	}
	s.LogInfo(ctx, "Invoice emailed", slog.String("invoice_id", inv.ID), slog.String("to", req.Email))
	s.track(userID, "invoice_emailed", map[string]any{"id": inv.ID})

	if !moveToSent {
		return inv, nil
	}
	target := domain.StatusSent
	return s.save(ctx, inv, nil, &target, "emailed to "+req.Email, userID)
}

func renderInvoiceEmail(inv *domain.Invoice, message string) string {
	var b strings.Builder
	if message = strings.TrimSpace(message); message != "" {
		b.WriteString(message)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Invoice %s\n", inv.Number)
	if inv.DueDate != nil {
		fmt.Fprintf(&b, "Due date: %s\n", inv.DueDate.Format("2006-01-02"))
	}
	b.WriteString("\n")
	for _, it := range inv.LineItems {
		fmt.Fprintf(&b, "%s  %s x %s = %s\n", it.Description, it.Quantity.String(), utils.FormatMoney(it.UnitPrice), utils.FormatMoney(it.LineTotal))
	}
	for _, adj := range inv.Adjustments {
		fmt.Fprintf(&b, "%s (%s)  %s\n", adj.AdjustmentType, adj.Reason, utils.FormatMoney(adj.Amount))
	}
	t := inv.Totals
	fmt.Fprintf(&b, "\nSubtotal: %s\n", utils.FormatMoney(t.Subtotal))
	if !t.DiscountAmount.IsZero() {
		fmt.Fprintf(&b, "Discount: -%s\n", utils.FormatMoney(t.DiscountAmount))
	}
	if !t.AdjustmentsTotal.IsZero() {
		fmt.Fprintf(&b, "Adjustments: %s\n", utils.FormatMoney(t.AdjustmentsTotal))
	}
	fmt.Fprintf(&b, "Tax (%s%%): %s\n", t.TaxRate.String(), utils.FormatMoney(t.TaxAmount))
	if !t.ShippingAmount.IsZero() {
		fmt.Fprintf(&b, "Shipping: %s\n", utils.FormatMoney(t.ShippingAmount))
	}
	fmt.Fprintf(&b, "Total: %s\n", utils.FormatMoney(t.TotalAmount))
	fmt.Fprintf(&b, "Balance due: %s\n", utils.FormatMoney(t.BalanceDue))
	return b.String()
}
