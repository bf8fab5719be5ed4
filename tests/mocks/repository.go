package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/internal/events"
)

type MockWeekRepository struct {
	mock.Mock
}

func (m *MockWeekRepository) Create(ctx context.Context, week *domain.LiquidityWeek) error {
	args := m.Called(ctx, week)
	return args.Error(0)
}

func (m *MockWeekRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityWeek, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiquidityWeek), args.Error(1)
}

func (m *MockWeekRepository) GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.LiquidityWeek, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiquidityWeek), args.Error(1)
}

func (m *MockWeekRepository) List(ctx context.Context) ([]*domain.LiquidityWeek, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiquidityWeek), args.Error(1)
}

func (m *MockWeekRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WeekUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) Create(ctx context.Context, item *domain.LiquidityLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLineItemRepository) CreateBatch(ctx context.Context, items []*domain.LiquidityLineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockLineItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityLineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiquidityLineItem), args.Error(1)
}

func (m *MockLineItemRepository) ListByWeek(ctx context.Context, weekID uuid.UUID) ([]*domain.LiquidityLineItem, error) {
	args := m.Called(ctx, weekID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiquidityLineItem), args.Error(1)
}

func (m *MockLineItemRepository) ListPaymentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LiquidityLineItem, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiquidityLineItem), args.Error(1)
}

func (m *MockLineItemRepository) Update(ctx context.Context, id uuid.UUID, update *domain.LineItemUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockLineItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) ListSupplierByStatus(ctx context.Context, statuses []string) ([]*domain.SupplierInvoice, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SupplierInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListCustomerByStatus(ctx context.Context, statuses []string) ([]*domain.CustomerInvoice, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CustomerInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateSupplierStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateCustomerStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockNotifier records change notifications.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) WeekChanged(ctx context.Context, weekID uuid.UUID) {
	m.Called(ctx, weekID)
}

func (m *MockNotifier) LineItemsChanged(ctx context.Context, weekID uuid.UUID) {
	m.Called(ctx, weekID)
}

func (m *MockNotifier) ItemCompleted(ctx context.Context, event events.ItemCompletedEvent) {
	m.Called(ctx, event)
}
