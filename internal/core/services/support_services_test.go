package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/disposal_backoffice/internal/core/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTotalsPreview(t *testing.T) {
	svc := services.NewTotalsService(services.PricingDefaults{TaxRate: dec("8.25")})
	rate := dec("8")

	resp, err := svc.Preview(context.Background(), dto.TotalsPreviewRequest{
		LineItems: []domain.LineItem{
			{Description: "Shredding", Quantity: dec("2"), UnitPrice: dec("25")},
			{Description: "Pickup", Quantity: dec("1"), UnitPrice: dec("50")},
		},
		Adjustments: []domain.Adjustment{
			{AdjustmentType: domain.AdjustmentFuelSurcharge, Amount: dec("20"), Reason: "fuel"},
		},
		Discount:       domain.DiscountSpec{Type: domain.DiscountPercent, Value: dec("10")},
		TaxRate:        &rate,
		ShippingAmount: dec("5"),
	})

	require.NoError(t, err)
	assert.True(t, dec("122.2").Equal(resp.Totals.TotalAmount), resp.Totals.TotalAmount.String())
	assert.Equal(t, "122.20", resp.Display.TotalAmount.StringFixed(2))
	require.Len(t, resp.LineItems, 2)
	assert.Equal(t, 1, resp.LineItems[0].SortOrder)
	assert.True(t, dec("50").Equal(resp.LineItems[0].LineTotal))
}

func TestTotalsPreview_UsesDefaultTaxRate(t *testing.T) {
	svc := services.NewTotalsService(services.PricingDefaults{TaxRate: dec("10")})

	resp, err := svc.Preview(context.Background(), dto.TotalsPreviewRequest{
		LineItems: []domain.LineItem{{Description: "Bin", Quantity: dec("1"), UnitPrice: dec("100")}},
	})

	require.NoError(t, err)
	assert.True(t, dec("10").Equal(resp.Totals.TaxAmount), resp.Totals.TaxAmount.String())
	assert.True(t, dec("110").Equal(resp.Totals.BalanceDue), resp.Totals.BalanceDue.String())
}

func TestTotalsPreview_RejectsOversizedFixedDiscount(t *testing.T) {
	svc := services.NewTotalsService(services.PricingDefaults{})

	_, err := svc.Preview(context.Background(), dto.TotalsPreviewRequest{
		LineItems: []domain.LineItem{{Description: "Bin", Quantity: dec("1"), UnitPrice: dec("40")}},
		Discount:  domain.DiscountSpec{Type: domain.DiscountFixed, Value: dec("41")},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpload(t *testing.T) {
	uploader := new(MockUploader)
	svc := services.NewUploadService(uploader, 1024)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".pdf") && !strings.Contains(name, "receipt")
	}), "application/pdf", mock.Anything).Return("https://files.example.com/abc.pdf", nil).Once()

	resp, err := svc.Upload(ctx, dto.UploadRequest{
		Filename:    "receipt.PDF",
		ContentType: "application/pdf",
		Size:        12,
		Body:        strings.NewReader("%PDF-1.7 ..."),
	}, "user-1")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "https://files.example.com/abc.pdf", resp.URL)
	uploader.AssertExpectations(t)
}

func TestUpload_Rejections(t *testing.T) {
	uploader := new(MockUploader)
	svc := services.NewUploadService(uploader, 8)
	ctx := context.Background()

	_, err := svc.Upload(ctx, dto.UploadRequest{Filename: "a.jpg", Size: 0, Body: strings.NewReader("")}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Upload(ctx, dto.UploadRequest{Filename: "a.jpg", Size: 9, Body: strings.NewReader("123456789")}, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_StorageFailureIsUpstream(t *testing.T) {
	uploader := new(MockUploader)
	svc := services.NewUploadService(uploader, 0)
	uploader.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).Return("", errors.New("quota exceeded")).Once()

	_, err := svc.Upload(context.Background(), dto.UploadRequest{
		Filename: "photo.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png"),
	}, "user-1")

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestCustomerService_CreateAndUpdate(t *testing.T) {
	repo := new(MockDocumentRepository[*domain.Customer])
	svc := services.NewCustomerService(repo, testOptions(nil)...)
	ctx := context.Background()

	repo.On("NextNumber", mock.Anything).Return("CUS-000001", nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Customer")).Return(nil).Once()

	c, err := svc.Create(ctx, body(t, map[string]any{"name": "Acme Records", "email": "ap@acme.test"}), "user-1")
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, "CUS-000001", c.Number)
	assert.Equal(t, testNow, c.CreatedAt)

	repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Customer"), int64(1), []domain.StatusEvent(nil)).Return(nil).Once()

	updated, err := svc.Update(ctx, c.ID, body(t, map[string]any{"is_active": false, "version": 1}), "user-2")
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Acme Records", updated.Name)
	assert.Equal(t, int64(2), updated.Version)

	_, err = svc.Update(ctx, c.ID, body(t, map[string]any{"name": "Acme", "version": 7}), "user-2")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertExpectations(t)
}

func TestCustomerService_CreateValidates(t *testing.T) {
	repo := new(MockDocumentRepository[*domain.Customer])
	svc := services.NewCustomerService(repo)

	_, err := svc.Create(context.Background(), body(t, map[string]any{"email": "not-an-email", "name": "X"}), "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(context.Background(), body(t, map[string]any{"contact_name": "Y"}), "user-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerRequestService_ListFiltersByStatus(t *testing.T) {
	repo := new(MockDocumentRepository[*domain.CustomerRequest])
	svc := services.NewCustomerRequestService(repo)
	items := []*domain.CustomerRequest{{ContactName: "Dana", Status: "new"}}

	repo.On("List", mock.Anything, portsrepo.ListFilter{
		Match: map[string]string{"status": "new"},
		Limit: 20,
	}).Return(items, "next", nil).Once()

	resp, err := svc.List(context.Background(), dto.ListParams{Status: "new", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, items, resp.Items)
	assert.Equal(t, "next", resp.NextToken)
}

func TestCatalogService_DefaultPriceRoundTrips(t *testing.T) {
	repo := new(MockDocumentRepository[*domain.Service])
	svc := services.NewCatalogService(repo)
	repo.On("NextNumber", mock.Anything).Return("SVC-000003", nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	s, err := svc.Create(context.Background(), body(t, map[string]any{"name": "Hard drive shred", "default_unit_price": "12.50", "unit": "each"}), "user-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(s.DefaultUnitPrice))
	assert.True(t, s.IsActive)
}
