package service_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/opsdash/liquidity-engine/internal/config"
	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/internal/events"
	"github.com/opsdash/liquidity-engine/internal/service"
	customError "github.com/opsdash/liquidity-engine/pkg/errors"
	"github.com/opsdash/liquidity-engine/tests/mocks"
)

func newTestService(
	weekRepo *mocks.MockWeekRepository,
	itemRepo *mocks.MockLineItemRepository,
	invoiceRepo *mocks.MockInvoiceRepository,
	notifier events.ChangeNotifier,
) *service.LiquidityService {
	cfg := &config.Config{
		Business: config.BusinessConfig{
			DefaultAlertThreshold: "0",
			DueSoonWindowHours:    48,
		},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return service.NewLiquidityService(weekRepo, itemRepo, invoiceRepo, notifier, cfg, logger)
}

func strPtr(s string) *string { return &s }

func TestEnsureCurrentWeek_Idempotent(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	var created *domain.LiquidityWeek

	weekRepo.On("GetByWeekStart", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows).Once()
	weekRepo.On("Create", mock.Anything, mock.MatchedBy(func(week *domain.LiquidityWeek) bool {
		created = week
		return week.WeekStart.Weekday() == time.Monday && week.OpeningBalance.IsZero()
	})).Return(nil).Once()
	invoiceRepo.On("ListSupplierByStatus", mock.Anything, []string{"pending", "awaiting_approval"}).
		Return([]*domain.SupplierInvoice{}, nil)
	invoiceRepo.On("ListCustomerByStatus", mock.Anything, []string{"pending", "awaiting_approval"}).
		Return([]*domain.CustomerInvoice{}, nil)

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	first, err := svc.EnsureCurrentWeek(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, first)

	// Second call in the same week finds the existing row
	weekRepo.On("GetByWeekStart", mock.Anything, mock.Anything).Return(created, nil)

	second, err := svc.EnsureCurrentWeek(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	weekRepo.AssertNumberOfCalls(t, "Create", 1)
	// No unpaid invoices, so no batch insert at all
	itemRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateWeek_SeedsFromInvoices(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	supplierInvoiceID := uuid.New()
	customerInvoiceID := uuid.New()
	dueDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	weekRepo.On("GetByWeekStart", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	weekRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoiceRepo.On("ListSupplierByStatus", mock.Anything, mock.Anything).Return([]*domain.SupplierInvoice{
		{
			ID:            supplierInvoiceID,
			InvoiceNumber: "S-1",
			SupplierName:  strPtr("Acme Traders"),
			Amount:        decimal.NullDecimal{Decimal: decimal.NewFromInt(1200), Valid: true},
			DueDate:       &dueDate,
			Status:        domain.InvoiceStatusPending,
		},
	}, nil)
	invoiceRepo.On("ListCustomerByStatus", mock.Anything, mock.Anything).Return([]*domain.CustomerInvoice{
		{
			ID:            customerInvoiceID,
			InvoiceNumber: "C-9",
			ClientName:    nil,
			Amount:        decimal.NullDecimal{Valid: false},
			Status:        domain.InvoiceStatusAwaitingApproval,
		},
	}, nil)

	itemRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []*domain.LiquidityLineItem) bool {
		if len(items) != 1 || items[0].ItemType != domain.ItemTypePayment {
			return false
		}
		item := items[0]
		return item.Description == "Supplier: Acme Traders — Inv#S-1" &&
			item.ExpectedAmount.Equal(decimal.NewFromInt(1200)) &&
			item.Status == domain.ItemStatusPending &&
			item.DueDate != nil && item.DueDate.Equal(dueDate) &&
			item.LinkedInvoiceID != nil && *item.LinkedInvoiceID == supplierInvoiceID &&
			item.LinkedInvoiceType == domain.LinkedInvoiceSupplier
	})).Return(nil).Once()
	itemRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []*domain.LiquidityLineItem) bool {
		if len(items) != 1 || items[0].ItemType != domain.ItemTypeCollection {
			return false
		}
		item := items[0]
		return item.Description == "Customer: Unknown — Inv#C-9" &&
			item.ExpectedAmount.IsZero() &&
			item.DueDate == nil &&
			item.LinkedInvoiceID != nil && *item.LinkedInvoiceID == customerInvoiceID &&
			item.LinkedInvoiceType == domain.LinkedInvoiceCustomer
	})).Return(nil).Once()

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	week, err := svc.CreateWeek(context.Background(), &domain.CreateWeekRequest{
		WeekStart:      "2026-09-07",
		OpeningBalance: decimal.NewFromInt(10000),
		AlertThreshold: decimal.NewFromInt(5000),
	})

	assert.NoError(t, err)
	assert.NotNil(t, week)
	itemRepo.AssertExpectations(t)
}

func TestCreateWeek_SeedFailureKeepsWeek(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	weekRepo.On("GetByWeekStart", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	weekRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	// Supplier side fails, customer side still runs
	invoiceRepo.On("ListSupplierByStatus", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))
	invoiceRepo.On("ListCustomerByStatus", mock.Anything, mock.Anything).
		Return([]*domain.CustomerInvoice{}, nil)

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	week, err := svc.CreateWeek(context.Background(), &domain.CreateWeekRequest{
		WeekStart: "2026-09-07",
	})

	assert.NotNil(t, week)
	assert.Error(t, err)

	var businessErr *customError.BusinessError
	assert.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeSeedError, businessErr.Code)

	invoiceRepo.AssertCalled(t, "ListCustomerByStatus", mock.Anything, mock.Anything)
}

func TestCreateWeek_AlreadyExists(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	weekRepo.On("GetByWeekStart", mock.Anything, mock.Anything).
		Return(&domain.LiquidityWeek{ID: uuid.New()}, nil)

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	week, err := svc.CreateWeek(context.Background(), &domain.CreateWeekRequest{
		WeekStart: "2026-09-07",
	})

	assert.Nil(t, week)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	weekRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateLineItem_CompletionCascade(t *testing.T) {
	supplierInvoiceID := uuid.New()
	customerInvoiceID := uuid.New()

	tests := []struct {
		name           string
		item           *domain.LiquidityLineItem
		newStatus      string
		expectSupplier bool
		expectCustomer bool
	}{
		{
			name: "supplier-linked item completed",
			item: &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypePayment,
				Status:            domain.ItemStatusPending,
				LinkedInvoiceID:   &supplierInvoiceID,
				LinkedInvoiceType: domain.LinkedInvoiceSupplier,
			},
			newStatus:      domain.ItemStatusCompleted,
			expectSupplier: true,
		},
		{
			name: "customer-linked item completed",
			item: &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypeCollection,
				Status:            domain.ItemStatusPartial,
				LinkedInvoiceID:   &customerInvoiceID,
				LinkedInvoiceType: domain.LinkedInvoiceCustomer,
			},
			newStatus:      domain.ItemStatusCompleted,
			expectCustomer: true,
		},
		{
			name: "manual item completed, no cascade",
			item: &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypePayment,
				Status:            domain.ItemStatusPending,
				LinkedInvoiceType: domain.LinkedInvoiceManual,
			},
			newStatus: domain.ItemStatusCompleted,
		},
		{
			name: "non-completing status change, no cascade",
			item: &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypePayment,
				Status:            domain.ItemStatusPending,
				LinkedInvoiceID:   &supplierInvoiceID,
				LinkedInvoiceType: domain.LinkedInvoiceSupplier,
			},
			newStatus: domain.ItemStatusPartial,
		},
		{
			name: "already completed, no second cascade",
			item: &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypePayment,
				Status:            domain.ItemStatusCompleted,
				LinkedInvoiceID:   &supplierInvoiceID,
				LinkedInvoiceType: domain.LinkedInvoiceSupplier,
			},
			newStatus: domain.ItemStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weekRepo := new(mocks.MockWeekRepository)
			itemRepo := new(mocks.MockLineItemRepository)
			invoiceRepo := new(mocks.MockInvoiceRepository)

			itemRepo.On("GetByID", mock.Anything, tt.item.ID).Return(tt.item, nil)
			itemRepo.On("Update", mock.Anything, tt.item.ID, mock.Anything).Return(nil)
			invoiceRepo.On("UpdateSupplierStatus", mock.Anything, mock.Anything, domain.InvoiceStatusApproved).Return(nil)
			invoiceRepo.On("UpdateCustomerStatus", mock.Anything, mock.Anything, domain.InvoiceStatusApproved).Return(nil)

			svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

			status := tt.newStatus
			_, err := svc.UpdateLineItem(context.Background(), tt.item.ID, &domain.LineItemUpdate{Status: &status})
			assert.NoError(t, err)

			if tt.expectSupplier {
				invoiceRepo.AssertCalled(t, "UpdateSupplierStatus", mock.Anything, supplierInvoiceID, domain.InvoiceStatusApproved)
			} else {
				invoiceRepo.AssertNotCalled(t, "UpdateSupplierStatus", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.expectCustomer {
				invoiceRepo.AssertCalled(t, "UpdateCustomerStatus", mock.Anything, customerInvoiceID, domain.InvoiceStatusApproved)
			} else {
				invoiceRepo.AssertNotCalled(t, "UpdateCustomerStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateLineItem_PublishesCompletedEvent(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)
	notifier := new(mocks.MockNotifier)

	invoiceID := uuid.New()
	item := &domain.LiquidityLineItem{
		ID:                uuid.New(),
		WeekID:            uuid.New(),
		ItemType:          domain.ItemTypePayment,
		Status:            domain.ItemStatusPending,
		LinkedInvoiceID:   &invoiceID,
		LinkedInvoiceType: domain.LinkedInvoiceSupplier,
	}

	itemRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Update", mock.Anything, item.ID, mock.Anything).Return(nil)
	invoiceRepo.On("UpdateSupplierStatus", mock.Anything, invoiceID, domain.InvoiceStatusApproved).Return(nil)
	notifier.On("ItemCompleted", mock.Anything, mock.MatchedBy(func(event events.ItemCompletedEvent) bool {
		return event.ItemID == item.ID && event.WeekID == item.WeekID &&
			event.LinkedInvoiceID != nil && *event.LinkedInvoiceID == invoiceID
	})).Return()
	notifier.On("LineItemsChanged", mock.Anything, item.WeekID).Return()

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, notifier)

	status := domain.ItemStatusCompleted
	_, err := svc.UpdateLineItem(context.Background(), item.ID, &domain.LineItemUpdate{Status: &status})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestRecordActual_StatusDerivation(t *testing.T) {
	tests := []struct {
		name           string
		expected       decimal.Decimal
		actual         decimal.Decimal
		expectedStatus string
	}{
		{"zero amount stays pending", decimal.NewFromInt(5000), decimal.Zero, domain.ItemStatusPending},
		{"below expected is partial", decimal.NewFromInt(5000), decimal.NewFromInt(2500), domain.ItemStatusPartial},
		{"exactly expected completes", decimal.NewFromInt(5000), decimal.NewFromInt(5000), domain.ItemStatusCompleted},
		{"above expected completes", decimal.NewFromInt(5000), decimal.NewFromInt(6000), domain.ItemStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weekRepo := new(mocks.MockWeekRepository)
			itemRepo := new(mocks.MockLineItemRepository)
			invoiceRepo := new(mocks.MockInvoiceRepository)

			item := &domain.LiquidityLineItem{
				ID:                uuid.New(),
				WeekID:            uuid.New(),
				ItemType:          domain.ItemTypeCollection,
				ExpectedAmount:    tt.expected,
				Status:            domain.ItemStatusPending,
				LinkedInvoiceType: domain.LinkedInvoiceManual,
			}

			itemRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil)
			itemRepo.On("Update", mock.Anything, item.ID, mock.MatchedBy(func(update *domain.LineItemUpdate) bool {
				return update.Status != nil && *update.Status == tt.expectedStatus &&
					update.ActualAmount != nil && update.ActualAmount.Equal(tt.actual) &&
					update.PaymentDate != nil
			})).Return(nil)

			svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

			_, err := svc.RecordActual(context.Background(), item.ID, tt.actual)
			assert.NoError(t, err)
			itemRepo.AssertExpectations(t)
		})
	}
}

func TestMarkDone_SetsExpectedAsActual(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	expected := decimal.NewFromInt(3000)
	item := &domain.LiquidityLineItem{
		ID:                uuid.New(),
		WeekID:            uuid.New(),
		ItemType:          domain.ItemTypePayment,
		ExpectedAmount:    expected,
		Status:            domain.ItemStatusPending,
		LinkedInvoiceType: domain.LinkedInvoiceManual,
	}

	itemRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Update", mock.Anything, item.ID, mock.MatchedBy(func(update *domain.LineItemUpdate) bool {
		return update.Status != nil && *update.Status == domain.ItemStatusCompleted &&
			update.ActualAmount != nil && update.ActualAmount.Equal(expected) &&
			update.PaymentDate != nil
	})).Return(nil)

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	_, err := svc.MarkDone(context.Background(), item.ID)
	assert.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

func TestDeleteLineItem_NoInvoiceCascade(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	invoiceID := uuid.New()
	item := &domain.LiquidityLineItem{
		ID:                uuid.New(),
		WeekID:            uuid.New(),
		ItemType:          domain.ItemTypePayment,
		Status:            domain.ItemStatusPending,
		LinkedInvoiceID:   &invoiceID,
		LinkedInvoiceType: domain.LinkedInvoiceSupplier,
	}

	itemRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	itemRepo.On("Delete", mock.Anything, item.ID).Return(nil)

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	err := svc.DeleteLineItem(context.Background(), item.ID)
	assert.NoError(t, err)
	invoiceRepo.AssertNotCalled(t, "UpdateSupplierStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestMonthlyPaymentDays(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	// September has 30 days; no qualifying items at first
	itemRepo.On("ListPaymentsDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.LiquidityLineItem{}, nil).Once()

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	days, err := svc.MonthlyPaymentDays(context.Background(), 2026, time.September)
	assert.NoError(t, err)
	assert.Len(t, days, 30)
	for _, day := range days {
		assert.Equal(t, 0, day.Count)
		assert.True(t, day.TotalAmount.IsZero())
	}

	// One payment due on the 15th
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	itemRepo.On("ListPaymentsDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.LiquidityLineItem{
			{
				ID:             uuid.New(),
				ItemType:       domain.ItemTypePayment,
				Description:    "Supplier: Acme Traders — Inv#S-1",
				ExpectedAmount: decimal.NewFromInt(2500),
				DueDate:        &due,
				Status:         domain.ItemStatusPending,
			},
		}, nil).Once()

	days, err = svc.MonthlyPaymentDays(context.Background(), 2026, time.September)
	assert.NoError(t, err)
	assert.Len(t, days, 30)

	for i, day := range days {
		if i == 14 {
			assert.Equal(t, 1, day.Count)
			assert.Equal(t, []string{"Supplier: Acme Traders — Inv#S-1"}, day.Descriptions)
			assert.True(t, day.TotalAmount.Equal(decimal.NewFromInt(2500)))
		} else {
			assert.Equal(t, 0, day.Count)
			assert.True(t, day.TotalAmount.IsZero())
		}
	}
}

func TestListWeeks_DatabaseError(t *testing.T) {
	weekRepo := new(mocks.MockWeekRepository)
	itemRepo := new(mocks.MockLineItemRepository)
	invoiceRepo := new(mocks.MockInvoiceRepository)

	weekRepo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newTestService(weekRepo, itemRepo, invoiceRepo, events.NopNotifier{})

	weeks, err := svc.ListWeeks(context.Background())
	assert.Nil(t, weeks)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}
