package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsdash/liquidity-engine/internal/domain"
)

// WeekRepository defines the interface for liquidity week data operations
type WeekRepository interface {
	// Create creates a new liquidity week
	Create(ctx context.Context, week *domain.LiquidityWeek) error

	// GetByID retrieves a week by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityWeek, error)

	// GetByWeekStart retrieves the week anchored at the given start date
	GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.LiquidityWeek, error)

	// List retrieves all weeks, newest week first
	List(ctx context.Context) ([]*domain.LiquidityWeek, error)

	// Update applies a partial update to a week's top-level fields
	Update(ctx context.Context, id uuid.UUID, update *domain.WeekUpdate) error
}

// LineItemRepository defines the interface for line item data operations
type LineItemRepository interface {
	// Create creates a single line item
	Create(ctx context.Context, item *domain.LiquidityLineItem) error

	// CreateBatch creates line items inside one transaction
	CreateBatch(ctx context.Context, items []*domain.LiquidityLineItem) error

	// GetByID retrieves a line item by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityLineItem, error)

	// ListByWeek retrieves all line items belonging to a week
	ListByWeek(ctx context.Context, weekID uuid.UUID) ([]*domain.LiquidityLineItem, error)

	// ListPaymentsDueBetween retrieves non-completed payment items with a due
	// date in [from, to)
	ListPaymentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LiquidityLineItem, error)

	// Update applies a partial update to a line item
	Update(ctx context.Context, id uuid.UUID, update *domain.LineItemUpdate) error

	// Delete removes a line item
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceRepository defines the interface for the invoice subsystem's tables
type InvoiceRepository interface {
	// ListSupplierByStatus retrieves supplier invoices whose status is in the given set
	ListSupplierByStatus(ctx context.Context, statuses []string) ([]*domain.SupplierInvoice, error)

	// ListCustomerByStatus retrieves customer invoices whose status is in the given set
	ListCustomerByStatus(ctx context.Context, statuses []string) ([]*domain.CustomerInvoice, error)

	// UpdateSupplierStatus sets a supplier invoice's status
	UpdateSupplierStatus(ctx context.Context, id uuid.UUID, status string) error

	// UpdateCustomerStatus sets a customer invoice's status
	UpdateCustomerStatus(ctx context.Context, id uuid.UUID, status string) error
}
