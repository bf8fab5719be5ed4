package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item types: a collection is money inbound, a payment is money outbound.
const (
	ItemTypeCollection = "collection"
	ItemTypePayment    = "payment"
)

const (
	ItemStatusPending   = "pending"
	ItemStatusPartial   = "partial"
	ItemStatusCompleted = "completed"
	ItemStatusOverdue   = "overdue"
)

const (
	LinkedInvoiceSupplier = "supplier"
	LinkedInvoiceCustomer = "customer"
	LinkedInvoiceManual   = "manual"
)

// LiquidityLineItem is a single expected or actual cash movement within a week.
type LiquidityLineItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	WeekID            uuid.UUID       `json:"week_id" db:"week_id"`
	ItemType          string          `json:"item_type" db:"item_type"`
	Description       string          `json:"description" db:"description"`
	ExpectedAmount    decimal.Decimal `json:"expected_amount" db:"expected_amount"`
	ActualAmount      decimal.Decimal `json:"actual_amount" db:"actual_amount"`
	DueDate           *time.Time      `json:"due_date,omitempty" db:"due_date"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	Status            string          `json:"status" db:"status"`
	LinkedInvoiceID   *uuid.UUID      `json:"linked_invoice_id,omitempty" db:"linked_invoice_id"`
	LinkedInvoiceType string          `json:"linked_invoice_type" db:"linked_invoice_type"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// LineItemUpdate is a partial update of a line item. Nil means unchanged.
type LineItemUpdate struct {
	ActualAmount *decimal.Decimal
	Status       *string
	PaymentDate  *time.Time
}

// DeriveStatus maps a recorded actual amount to an item status:
// zero is pending, at or above the expected amount is completed,
// anything in between is partial.
func DeriveStatus(expected, actual decimal.Decimal) string {
	switch {
	case actual.IsZero():
		return ItemStatusPending
	case actual.GreaterThanOrEqual(expected):
		return ItemStatusCompleted
	default:
		return ItemStatusPartial
	}
}

// DTOs for requests and responses

type AddLineItemRequest struct {
	ItemType          string          `json:"item_type" validate:"required,oneof=collection payment"`
	Description       string          `json:"description" validate:"required"`
	ExpectedAmount    decimal.Decimal `json:"expected_amount"`
	DueDate           *string         `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LinkedInvoiceType string          `json:"linked_invoice_type" validate:"omitempty,oneof=supplier customer manual"`
}

type UpdateLineItemRequest struct {
	ActualAmount *decimal.Decimal `json:"actual_amount,omitempty"`
	Status       *string          `json:"status,omitempty" validate:"omitempty,oneof=pending partial completed overdue"`
	PaymentDate  *string          `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RecordActualRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
