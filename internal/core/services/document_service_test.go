package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/core/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func body(t *testing.T, fields map[string]any) dto.DocumentPatch {
	t.Helper()
	p := make(dto.DocumentPatch, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		p[k] = raw
	}
	return p
}

func testOptions(publisher portssvc.EventPublisher) []services.ServiceOption {
	clock := func() time.Time { return testNow }
	return []services.ServiceOption{
		services.WithClock(clock),
		services.WithLifecycle(lifecycle.NewController(lifecycle.DefaultRegistry(), lifecycle.WithClock(clock))),
		services.WithEventPublisher(publisher),
	}
}

// --- Test Suite Setup ---

type DocumentServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	invoiceRepo  *MockDocumentRepository[*domain.Invoice]
	estimateRepo *MockDocumentRepository[*domain.Estimate]
	jobRepo      *MockDocumentRepository[*domain.Job]
	affRepo      *MockDocumentRepository[*domain.Affidavit]
	mailer       *MockMailer
	publisher    *MockPublisher
	invoices     portssvc.InvoiceSvcFacade
	estimates    portssvc.DocumentSvcFacade[*domain.Estimate]
	jobs         portssvc.DocumentSvcFacade[*domain.Job]
	affidavits   portssvc.AffidavitSvcFacade
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.invoiceRepo = new(MockDocumentRepository[*domain.Invoice])
	s.estimateRepo = new(MockDocumentRepository[*domain.Estimate])
	s.jobRepo = new(MockDocumentRepository[*domain.Job])
	s.affRepo = new(MockDocumentRepository[*domain.Affidavit])
	s.mailer = new(MockMailer)
	s.publisher = new(MockPublisher)

	opts := testOptions(s.publisher)
	pricing := services.PricingDefaults{TaxRate: dec("8")}
	s.invoices = services.NewInvoiceService(s.invoiceRepo, s.mailer, pricing, opts...)
	s.estimates = services.NewEstimateService(s.estimateRepo, pricing, opts...)
	s.jobs = services.NewJobService(s.jobRepo, opts...)
	s.affidavits = services.NewAffidavitService(s.affRepo, opts...)
}

func (s *DocumentServiceTestSuite) assertDecimal(expected string, actual decimal.Decimal, field string) {
	s.True(dec(expected).Equal(actual), "%s: expected %s, got %s", field, expected, actual.String())
}

// --- Test Cases ---

func (s *DocumentServiceTestSuite) TestCreateInvoice_ComputesTotalsServerSide() {
	s.invoiceRepo.On("NextNumber", mock.Anything).Return("INV-000001", nil).Once()
	s.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil).Once()

	inv, err := s.invoices.Create(s.ctx, body(s.T(), map[string]any{
		"customer_id": "cust-1",
		"line_items": []map[string]any{
			{"description": "Shredding", "quantity": 2, "unit_price": "25"},
			{"description": "Pickup", "quantity": 1, "unit_price": 50},
		},
		"adjustments": []map[string]any{
			{"adjustment_type": "fuel_surcharge", "amount": 20, "reason": "fuel"},
		},
		"discount":        map[string]any{"type": "percent", "value": 10},
		"shipping_amount": 5,
		"totals":          map[string]any{"total_amount": 1},
	}), "user-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, inv.Status)
	s.Equal("INV-000001", inv.Number)
	s.NotEmpty(inv.ID)
	s.Equal(int64(1), inv.Version)
	s.Equal("user-1", inv.CreatedBy)
	s.Require().NotNil(inv.IssueDate)
	s.Require().Len(inv.LineItems, 2)
	s.NotEmpty(inv.LineItems[0].ID)
	s.NotEmpty(inv.Adjustments[0].ID)
	s.assertDecimal("8", inv.TaxRate, "default tax rate")
	s.assertDecimal("10", inv.Totals.DiscountAmount, "discount_amount")
	s.assertDecimal("90", inv.Totals.TaxableSubtotal, "taxable_subtotal")
	s.assertDecimal("7.2", inv.Totals.TaxAmount, "tax_amount")
	s.assertDecimal("122.2", inv.Totals.TotalAmount, "total_amount")
	s.invoiceRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestCreateInvoice_RejectsAdjustmentWithoutReason() {
	s.invoiceRepo.On("NextNumber", mock.Anything).Return("INV-000002", nil).Maybe()

	_, err := s.invoices.Create(s.ctx, body(s.T(), map[string]any{
		"customer_id": "cust-1",
		"adjustments": []map[string]any{{"adjustment_type": "credit", "amount": -5}},
	}), "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.invoiceRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestCreate_RejectsUnknownFieldsAndNonInitialStatus() {
	_, err := s.invoices.Create(s.ctx, body(s.T(), map[string]any{"customer_id": "c", "colour": "red"}), "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.invoices.Create(s.ctx, body(s.T(), map[string]any{"customer_id": "c", "status": "paid"}), "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func sentEstimate() *domain.Estimate {
	est := &domain.Estimate{
		Document:   domain.Document{ID: "est-1", Number: "EST-000001", Status: domain.StatusSent, AuditFields: domain.AuditFields{Version: 3}},
		CustomerID: "cust-1",
	}
	est.LineItems = []domain.LineItem{{ID: "li-1", Description: "Shredding", Quantity: dec("2"), UnitPrice: dec("10"), LineTotal: dec("20"), SortOrder: 1}}
	est.Adjustments = []domain.Adjustment{}
	est.Discount = domain.DiscountSpec{Type: domain.DiscountPercent}
	est.TaxRate = dec("0")
	return est
}

func (s *DocumentServiceTestSuite) TestUpdateEstimate_QuantityEditableWhenPricingLocked() {
	s.estimateRepo.On("FindByID", mock.Anything, "est-1").Return(sentEstimate(), nil).Once()
	s.estimateRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Estimate"), int64(3), []domain.StatusEvent(nil)).Return(nil).Once()

	est, err := s.estimates.Update(s.ctx, "est-1", body(s.T(), map[string]any{
		"line_items": []map[string]any{
			{"id": "li-1", "description": "Shredding", "quantity": 5, "unit_price": "10.00", "sort_order": 1},
		},
	}), "user-2")

	s.Require().NoError(err)
	s.assertDecimal("50", est.LineItems[0].LineTotal, "line_total")
	s.assertDecimal("50", est.Totals.Subtotal, "subtotal")
	s.Equal(int64(4), est.Version)
	s.Equal("user-2", est.LastUpdatedBy)
	s.estimateRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateEstimate_UnitPriceLockedAfterSend() {
	s.estimateRepo.On("FindByID", mock.Anything, "est-1").Return(sentEstimate(), nil)

	_, err := s.estimates.Update(s.ctx, "est-1", body(s.T(), map[string]any{
		"line_items": []map[string]any{
			{"id": "li-1", "description": "Shredding", "quantity": 2, "unit_price": 12, "sort_order": 1},
		},
	}), "user-2")

	var locked *apperrors.FieldLockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal("line_items.unit_price", locked.Field)

	_, err = s.estimates.Update(s.ctx, "est-1", body(s.T(), map[string]any{
		"line_items": []map[string]any{},
	}), "user-2")
	s.ErrorIs(err, apperrors.ErrFieldLocked)

	s.estimateRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdate_StaleVersionConflicts() {
	s.estimateRepo.On("FindByID", mock.Anything, "est-1").Return(sentEstimate(), nil).Once()

	_, err := s.estimates.Update(s.ctx, "est-1", body(s.T(), map[string]any{"version": 2, "notes": "x"}), "user-2")

	s.ErrorIs(err, apperrors.ErrConflict)
	s.estimateRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdate_RepositoryConflictPropagates() {
	s.estimateRepo.On("FindByID", mock.Anything, "est-1").Return(sentEstimate(), nil).Once()
	s.estimateRepo.On("Update", mock.Anything, mock.Anything, int64(3), mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := s.estimates.Update(s.ctx, "est-1", body(s.T(), map[string]any{"notes": "call first"}), "user-2")
	s.ErrorIs(err, apperrors.ErrConflict)
}

func scheduledJob() *domain.Job {
	return &domain.Job{
		Document:          domain.Document{ID: "job-1", Status: domain.StatusScheduled, AuditFields: domain.AuditFields{Version: 1}},
		CustomerID:        "cust-1",
		DestructionMethod: "shred",
		Materials:         []domain.Material{},
	}
}

func (s *DocumentServiceTestSuite) TestUpdateJob_CompletionNeedsDate() {
	s.jobRepo.On("FindByID", mock.Anything, "job-1").Return(scheduledJob(), nil).Once()

	_, err := s.jobs.Update(s.ctx, "job-1", body(s.T(), map[string]any{"status": "completed"}), "user-1")

	s.ErrorIs(err, apperrors.ErrPreconditionUnmet)
	s.jobRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdateJob_DateAndCompletionInOneSave() {
	s.jobRepo.On("FindByID", mock.Anything, "job-1").Return(scheduledJob(), nil).Once()
	s.jobRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Job"), int64(1), mock.MatchedBy(func(events []domain.StatusEvent) bool {
		return len(events) == 1 && events[0].FromStatus == domain.StatusScheduled && events[0].ToStatus == domain.StatusCompleted
	})).Return(nil).Once()
	s.publisher.On("PublishStatusChanged", mock.Anything, mock.AnythingOfType("domain.StatusEvent")).Return(nil).Once()

	job, err := s.jobs.Update(s.ctx, "job-1", body(s.T(), map[string]any{
		"actual_completion_date": "2025-03-13T16:00:00Z",
		"status":                 "completed",
	}), "user-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, job.Status)
	s.Require().NotNil(job.CompletedTimestamp)
	s.Equal(testNow, *job.CompletedTimestamp)
	s.jobRepo.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateJob_LockedFieldsCheckedAgainstStatusBeforeTransition() {
	job := scheduledJob()
	job.Status = domain.StatusCompleted
	done := testNow.Add(-time.Hour)
	job.ActualCompletionDate = &done
	s.jobRepo.On("FindByID", mock.Anything, "job-1").Return(job, nil).Once()

	_, err := s.jobs.Update(s.ctx, "job-1", body(s.T(), map[string]any{
		"destruction_method": "incinerate",
		"status":             "archived",
	}), "user-1")

	s.ErrorIs(err, apperrors.ErrFieldLocked)
}

func (s *DocumentServiceTestSuite) TestTransitionInvoice_PaidToDraftIsInvalid() {
	inv := &domain.Invoice{Document: domain.Document{ID: "inv-1", Status: domain.StatusPaid}, CustomerID: "c"}
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(inv, nil).Once()

	_, err := s.invoices.Transition(s.ctx, "inv-1", dto.TransitionRequest{Status: "draft"}, "user-1")

	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.Equal(domain.StatusPaid, inv.Status)
	s.invoiceRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestDelete_OnlyInInitialStatus() {
	sent := &domain.Invoice{Document: domain.Document{ID: "inv-1", Status: domain.StatusSent}}
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(sent, nil).Once()
	err := s.invoices.Delete(s.ctx, "inv-1", "user-1")
	s.ErrorIs(err, apperrors.ErrFieldLocked)

	draft := &domain.Invoice{Document: domain.Document{ID: "inv-2", Status: domain.StatusDraft}}
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-2").Return(draft, nil).Once()
	s.invoiceRepo.On("Delete", mock.Anything, "inv-2").Return(nil).Once()
	s.NoError(s.invoices.Delete(s.ctx, "inv-2", "user-1"))
	s.invoiceRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestGet_NotFound() {
	s.invoiceRepo.On("FindByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()
	_, err := s.invoices.Get(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DocumentServiceTestSuite) TestList_RejectsUnknownStatus() {
	_, err := s.invoices.List(s.ctx, dto.ListParams{Status: "archived"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestHistory() {
	inv := &domain.Invoice{Document: domain.Document{ID: "inv-1", Status: domain.StatusSent}}
	events := []domain.StatusEvent{{EventID: "e1", DocumentID: "inv-1", FromStatus: domain.StatusDraft, ToStatus: domain.StatusSent}}
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(inv, nil).Once()
	s.invoiceRepo.On("ListStatusEvents", mock.Anything, domain.EntityInvoice, "inv-1").Return(events, nil).Once()

	got, err := s.invoices.History(s.ctx, "inv-1")
	s.Require().NoError(err)
	s.Equal(events, got)
}

func issuedAffidavit() *domain.Affidavit {
	destroyed := testNow.AddDate(0, 0, -2)
	return &domain.Affidavit{
		Document:        domain.Document{ID: "aff-1", Status: domain.StatusIssued, AuditFields: domain.AuditFields{Version: 2}},
		JobID:           "job-1",
		DestructionDate: &destroyed,
	}
}

func (s *DocumentServiceTestSuite) TestRevokeAffidavit_RequiresReason() {
	s.affRepo.On("FindByID", mock.Anything, "aff-1").Return(issuedAffidavit(), nil).Once()

	_, err := s.affidavits.Revoke(s.ctx, "aff-1", dto.RevokeRequest{Reason: "  "}, "user-1")

	s.ErrorIs(err, apperrors.ErrRevocationDenied)
	s.affRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestRevokeAffidavit_PublishFailureIsNotFatal() {
	s.affRepo.On("FindByID", mock.Anything, "aff-1").Return(issuedAffidavit(), nil).Once()
	s.affRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Affidavit"), int64(2), mock.MatchedBy(func(events []domain.StatusEvent) bool {
		return len(events) == 1 && events[0].ToStatus == domain.StatusRevoked && events[0].Reason == "clerical error"
	})).Return(nil).Once()
	s.publisher.On("PublishStatusChanged", mock.Anything, mock.Anything).Return(errors.New("nats: no servers available")).Once()

	aff, err := s.affidavits.Revoke(s.ctx, "aff-1", dto.RevokeRequest{Reason: "clerical error"}, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusRevoked, aff.Status)
	s.Equal("clerical error", aff.RevocationReason)
	s.affRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateAffidavit_ReadOnlyFieldsMayOnlyEchoStoredValue() {
	pending := &domain.Affidavit{Document: domain.Document{ID: "aff-2", Status: domain.StatusPending, AuditFields: domain.AuditFields{Version: 1}}}
	s.affRepo.On("FindByID", mock.Anything, "aff-2").Return(pending, nil).Twice()
	s.affRepo.On("Update", mock.Anything, mock.Anything, int64(1), []domain.StatusEvent(nil)).Return(nil).Once()

	aff, err := s.affidavits.Update(s.ctx, "aff-2", body(s.T(), map[string]any{
		"witness_name": "J. Smith",
		"id":           "aff-2",
	}), "user-1")
	s.Require().NoError(err)
	s.Equal("J. Smith", aff.WitnessName)
	s.Equal("aff-2", aff.ID)

	_, err = s.affidavits.Update(s.ctx, "aff-2", body(s.T(), map[string]any{
		"witness_name":      "J. Smith",
		"revocation_reason": "sneaky",
	}), "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.affRepo.AssertNumberOfCalls(s.T(), "Update", 1)
}

func (s *DocumentServiceTestSuite) TestUpdateAffidavit_RejectsKeysDifferingOnlyInCase() {
	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "locked field", fields: map[string]any{"Witness_Name": "Mallory"}},
		{name: "service timestamp", fields: map[string]any{"Revoked_Timestamp": "2020-01-01T00:00:00Z"}},
		{name: "revocation reason", fields: map[string]any{"REVOCATION_REASON": "forged"}},
		{name: "status control key", fields: map[string]any{"Status": "revoked"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.affRepo.On("FindByID", mock.Anything, "aff-1").Return(issuedAffidavit(), nil).Once()

			_, err := s.affidavits.Update(s.ctx, "aff-1", body(s.T(), tt.fields), "user-1")

			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.affRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdateAffidavit_IssuedContentIsLocked() {
	s.affRepo.On("FindByID", mock.Anything, "aff-1").Return(issuedAffidavit(), nil).Once()

	_, err := s.affidavits.Update(s.ctx, "aff-1", body(s.T(), map[string]any{"witness_name": "Mallory"}), "user-1")

	var locked *apperrors.FieldLockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal("witness_name", locked.Field)
	s.affRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func draftInvoice() *domain.Invoice {
	inv := &domain.Invoice{
		Document:   domain.Document{ID: "inv-1", Number: "INV-000007", Status: domain.StatusDraft, AuditFields: domain.AuditFields{Version: 1}},
		CustomerID: "cust-1",
	}
	inv.LineItems = []domain.LineItem{{ID: "li-1", Description: "Shredding", Quantity: dec("1"), UnitPrice: dec("40"), SortOrder: 1}}
	inv.Adjustments = []domain.Adjustment{}
	inv.Discount = domain.DiscountSpec{Type: domain.DiscountPercent}
	return inv
}

func (s *DocumentServiceTestSuite) TestSendInvoice_EmailFailureKeepsDraft() {
	inv := draftInvoice()
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(inv, nil).Once()
	s.mailer.On("Send", mock.Anything, mock.AnythingOfType("services.MailMessage")).Return(errors.New("connection refused")).Once()

	_, err := s.invoices.Send(s.ctx, dto.SendInvoiceRequest{InvoiceID: "inv-1", Email: "ap@example.com"}, "user-1")

	s.ErrorIs(err, apperrors.ErrUpstream)
	s.Equal(domain.StatusDraft, inv.Status)
	s.invoiceRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestSendInvoice_MovesDraftToSent() {
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(draftInvoice(), nil).Once()
	s.mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg portssvc.MailMessage) bool {
		return msg.To == "ap@example.com" && msg.Subject == "Invoice INV-000007"
	})).Return(nil).Once()
	s.invoiceRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Invoice"), int64(1), mock.Anything).Return(nil).Once()
	s.publisher.On("PublishStatusChanged", mock.Anything, mock.Anything).Return(nil).Once()

	inv, err := s.invoices.Send(s.ctx, dto.SendInvoiceRequest{InvoiceID: "inv-1", Email: "ap@example.com", Message: "Thanks!"}, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusSent, inv.Status)
	s.Require().NotNil(inv.SentDate)
	s.mailer.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestSendInvoice_WithoutLineItemsIsRejectedBeforeEmail() {
	inv := draftInvoice()
	inv.LineItems = nil
	s.invoiceRepo.On("FindByID", mock.Anything, "inv-1").Return(inv, nil).Once()

	_, err := s.invoices.Send(s.ctx, dto.SendInvoiceRequest{InvoiceID: "inv-1", Email: "ap@example.com"}, "user-1")

	s.ErrorIs(err, apperrors.ErrPreconditionUnmet)
	s.mailer.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
