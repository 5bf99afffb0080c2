package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/core/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo *MockInvoiceRepository
	clientRepo  *MockClientRepository
	projectRepo *MockProjectRepository
	company     *MockCompanySettingsService
	notifier    *MockNotifier
	activity    *MockActivityRecorder
	stats       *MockStatsInvalidator
	service     portssvc.InvoiceSvcFacade

	userID   string
	settings *domain.CompanySettings
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.clientRepo = new(MockClientRepository)
	suite.projectRepo = new(MockProjectRepository)
	suite.company = new(MockCompanySettingsService)
	suite.notifier = new(MockNotifier)
	suite.activity = new(MockActivityRecorder)
	suite.stats = new(MockStatsInvalidator)
	suite.service = services.NewInvoiceService(
		suite.invoiceRepo,
		suite.clientRepo,
		suite.projectRepo,
		suite.company,
		nil,
		services.WithInvoiceActivityRecorder(suite.activity),
		services.WithInvoiceNotifications(suite.notifier),
		services.WithInvoiceStatsInvalidator(suite.stats),
		services.WithInvoiceFrontendURL("https://app.example.com/"),
	)

	suite.userID = uuid.NewString()
	settings := domain.DefaultCompanySettings(suite.userID)
	settings.CompanyName = "Studio Kev"
	settings.PaymentTermsDays = 15
	suite.settings = &settings

	suite.activity.On("Record", mock.Anything, suite.userID, domain.EntityInvoice, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.clientRepo.AssertExpectations(suite.T())
	suite.company.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
	suite.stats.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) invoice(status domain.InvoiceStatus) *domain.Invoice {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Invoice{
		InvoiceID: uuid.NewString(),
		UserID:    suite.userID,
		Type:      domain.InvoiceTypeInvoice,
		Number:    "INV-2026-0007",
		Status:    status,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 15),
		Currency:  "XOF",
		Total:     decimal.NewFromInt(250000),
		Items: []domain.InvoiceItem{
			{ItemID: uuid.NewString(), Description: "Design", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(250000), Amount: decimal.NewFromInt(250000)},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ComputesAmountsAndDefaults() {
	ctx := context.Background()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateInvoiceRequest{
		Type:      string(domain.InvoiceTypeInvoice),
		IssueDate: issue,
		TaxRate:   decimal.NewFromInt(18),
		Discount:  decimal.NewFromInt(10),
		Items: []dto.InvoiceItemRequest{
			{Description: "Development", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50.50")},
		},
	}

	suite.company.On("GetSettings", ctx, suite.userID).Return(suite.settings, nil).Once()
	suite.invoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Invoice).Number = "INV-2026-0001"
		}).
		Return(nil).Once()

	inv, err := suite.service.CreateInvoice(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal("INV-2026-0001", inv.Number)
	suite.Equal(domain.InvoiceDraft, inv.Status)
	suite.Equal("XOF", inv.Currency)
	suite.Equal(issue.AddDate(0, 0, 15), inv.DueDate)
	suite.True(decimal.RequireFromString("250.50").Equal(inv.Subtotal), inv.Subtotal.String())
	suite.True(decimal.RequireFromString("45.09").Equal(inv.TaxAmount), inv.TaxAmount.String())
	suite.True(decimal.RequireFromString("285.59").Equal(inv.Total), inv.Total.String())
	for _, item := range inv.Items {
		suite.NotEmpty(item.ItemID)
		suite.Equal(inv.InvoiceID, item.InvoiceID)
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueBeforeIssue() {
	ctx := context.Background()
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, -1)
	req := dto.CreateInvoiceRequest{
		Type:      string(domain.InvoiceTypeInvoice),
		IssueDate: issue,
		DueDate:   &due,
		Items:     []dto.InvoiceItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	}
	suite.company.On("GetSettings", ctx, suite.userID).Return(suite.settings, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownClient() {
	ctx := context.Background()
	clientID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		Type:      string(domain.InvoiceTypeProforma),
		ClientID:  &clientID,
		IssueDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Items:     []dto.InvoiceItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	}
	suite.company.On("GetSettings", ctx, suite.userID).Return(suite.settings, nil).Once()
	suite.clientRepo.On("FindClientByID", ctx, suite.userID, clientID).Return(nil, apperrors.NewNotFoundError("client")).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_PaidIsNotEditable() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoicePaid)
	notes := "late change"
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.UpdateInvoice(ctx, suite.userID, inv.InvoiceID, dto.UpdateInvoiceRequest{Notes: &notes})

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RecomputesAndInvalidatesBothYears() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoiceDraft)
	issue := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	items := []dto.InvoiceItemRequest{{Description: "Audit", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1000)}}
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()
	suite.invoiceRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), true).Return(nil).Once()
	suite.stats.On("Invalidate", ctx, suite.userID, []int{2026, 2027}).Return().Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.userID, inv.InvoiceID, dto.UpdateInvoiceRequest{
		IssueDate: &issue,
		DueDate:   &due,
		Items:     &items,
	})

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(2000).Equal(updated.Total), updated.Total.String())
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_RejectsInvalidTransition() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoicePaid)
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()

	_, err := suite.service.UpdateStatus(ctx, suite.userID, inv.InvoiceID, domain.InvoicePending)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_PaidNotifiesAndInvalidates() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoicePending)
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()
	suite.invoiceRepo.On("UpdateInvoiceStatus", ctx, suite.userID, inv.InvoiceID,
		[]domain.InvoiceStatus{domain.InvoicePending}, domain.InvoicePaid, mock.AnythingOfType("*time.Time")).
		Return(nil).Once()
	suite.notifier.On("Notify", ctx, mock.MatchedBy(func(in portssvc.NotifyInput) bool {
		return in.Type == domain.NotificationInvoicePaid && in.Email && in.EntityID == inv.InvoiceID
	})).Return(&domain.Notification{}, nil).Once()
	suite.stats.On("Invalidate", ctx, suite.userID, mock.Anything).Return().Once()

	updated, err := suite.service.UpdateStatus(ctx, suite.userID, inv.InvoiceID, domain.InvoicePaid)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, updated.Status)
	suite.NotNil(updated.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestConvertProforma_CreatesPendingInvoice() {
	ctx := context.Background()
	proforma := suite.invoice(domain.InvoicePending)
	proforma.Type = domain.InvoiceTypeProforma
	proforma.Number = "PRO-2026-0002"
	originalItemID := proforma.Items[0].ItemID

	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, proforma.InvoiceID).Return(proforma, nil).Once()
	suite.company.On("GetSettings", ctx, suite.userID).Return(suite.settings, nil).Once()
	suite.invoiceRepo.On("ConvertProforma", ctx, proforma.InvoiceID, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Type == domain.InvoiceTypeInvoice &&
			inv.Status == domain.InvoicePending &&
			inv.ConvertedFromID != nil && *inv.ConvertedFromID == proforma.InvoiceID &&
			len(inv.Items) == 1 && inv.Items[0].ItemID != originalItemID &&
			inv.Total.Equal(proforma.Total)
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*domain.Invoice).Number = "INV-2026-0010"
	}).Return(nil).Once()
	suite.stats.On("Invalidate", ctx, suite.userID, mock.Anything).Return().Once()

	inv, err := suite.service.ConvertProforma(ctx, suite.userID, proforma.InvoiceID)

	suite.Require().NoError(err)
	suite.Equal("INV-2026-0010", inv.Number)
	suite.Equal(inv.IssueDate.AddDate(0, 0, 15), inv.DueDate)
	suite.Equal(0, inv.IssueDate.Hour())
}

func (suite *InvoiceServiceTestSuite) TestConvertProforma_RejectsInvoicesAndConverted() {
	ctx := context.Background()
	plain := suite.invoice(domain.InvoicePending)
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, plain.InvoiceID).Return(plain, nil).Once()
	_, err := suite.service.ConvertProforma(ctx, suite.userID, plain.InvoiceID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	converted := suite.invoice(domain.InvoiceConverted)
	converted.Type = domain.InvoiceTypeProforma
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, converted.InvoiceID).Return(converted, nil).Once()
	_, err = suite.service.ConvertProforma(ctx, suite.userID, converted.InvoiceID)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestSend_DraftMovesToPendingAndQueuesEmail() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoiceDraft)
	clientID := uuid.NewString()
	inv.ClientID = &clientID
	client := &domain.Client{ClientID: clientID, UserID: suite.userID, Name: "Acme", Email: "billing@acme.test"}

	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()
	suite.invoiceRepo.On("UpdateInvoiceStatus", ctx, suite.userID, inv.InvoiceID,
		[]domain.InvoiceStatus{domain.InvoiceDraft}, domain.InvoicePending, (*time.Time)(nil)).Return(nil).Once()
	suite.clientRepo.On("FindClientByID", ctx, suite.userID, clientID).Return(client, nil).Once()
	suite.company.On("GetSettings", ctx, suite.userID).Return(suite.settings, nil).Once()
	suite.notifier.On("QueueEmail", ctx, suite.userID, client.Email,
		"Invoice INV-2026-0007 from Studio Kev",
		mock.MatchedBy(func(body string) bool {
			return len(body) > 0 && containsAll(body, "Hello Acme", "https://app.example.com/invoices/"+inv.InvoiceID)
		})).Return(true, nil).Once()

	sent, queued, err := suite.service.Send(ctx, suite.userID, inv.InvoiceID)

	suite.Require().NoError(err)
	suite.True(queued)
	suite.Equal(domain.InvoicePending, sent.Status)
}

func (suite *InvoiceServiceTestSuite) TestSend_ClientWithoutEmailIsNotQueued() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoicePending)
	clientID := uuid.NewString()
	inv.ClientID = &clientID

	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()
	suite.clientRepo.On("FindClientByID", ctx, suite.userID, clientID).Return(&domain.Client{ClientID: clientID, Name: "Acme"}, nil).Once()

	_, queued, err := suite.service.Send(ctx, suite.userID, inv.InvoiceID)

	suite.Require().NoError(err)
	suite.False(queued)
}

func (suite *InvoiceServiceTestSuite) TestSend_CancelledConflicts() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoiceCancelled)
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()

	_, _, err := suite.service.Send(ctx, suite.userID, inv.InvoiceID)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_PaidConflicts() {
	ctx := context.Background()
	inv := suite.invoice(domain.InvoicePaid)
	suite.invoiceRepo.On("FindInvoiceByID", ctx, suite.userID, inv.InvoiceID).Return(inv, nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.userID, inv.InvoiceID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "DeleteInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdueInvoices() {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)

	late := suite.invoice(domain.InvoicePending)
	late.DueDate = now.AddDate(0, 0, -3)
	raced := suite.invoice(domain.InvoicePending)
	raced.DueDate = now.AddDate(0, 0, -1)
	dueToday := suite.invoice(domain.InvoicePending)
	dueToday.DueDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.invoiceRepo.On("ListPendingDueBefore", ctx, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)).
		Return([]domain.Invoice{*late, *raced, *dueToday}, nil).Once()
	suite.invoiceRepo.On("UpdateInvoiceStatus", ctx, suite.userID, late.InvoiceID,
		[]domain.InvoiceStatus{domain.InvoicePending}, domain.InvoiceOverdue, (*time.Time)(nil)).Return(nil).Once()
	suite.invoiceRepo.On("UpdateInvoiceStatus", ctx, suite.userID, raced.InvoiceID,
		[]domain.InvoiceStatus{domain.InvoicePending}, domain.InvoiceOverdue, (*time.Time)(nil)).
		Return(apperrors.ErrConflict).Once()
	suite.notifier.On("Notify", ctx, mock.MatchedBy(func(in portssvc.NotifyInput) bool {
		return in.Type == domain.NotificationInvoiceOverdue && in.EntityID == late.InvoiceID
	})).Return(&domain.Notification{}, nil).Once()
	suite.stats.On("Invalidate", ctx, suite.userID, []int{late.IssueDate.Year()}).Return().Once()

	moved, err := suite.service.MarkOverdueInvoices(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, moved)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
