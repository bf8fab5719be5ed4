package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusPending          = "pending"
	InvoiceStatusAwaitingApproval = "awaiting_approval"
	InvoiceStatusApproved         = "approved"
	InvoiceStatusPaid             = "paid"
)

// SupplierInvoice is an outbound obligation sourced from the invoice subsystem.
// Name and amount may be missing on freshly extracted documents.
type SupplierInvoice struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	InvoiceNumber string              `json:"invoice_number" db:"invoice_number"`
	SupplierName  *string             `json:"supplier_name,omitempty" db:"supplier_name"`
	Amount        decimal.NullDecimal `json:"amount" db:"amount"`
	DueDate       *time.Time          `json:"due_date,omitempty" db:"due_date"`
	Status        string              `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}

// CustomerInvoice is an inbound receivable sourced from the invoice subsystem.
type CustomerInvoice struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	InvoiceNumber string              `json:"invoice_number" db:"invoice_number"`
	ClientName    *string             `json:"client_name,omitempty" db:"client_name"`
	Amount        decimal.NullDecimal `json:"amount" db:"amount"`
	Status        string              `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}
