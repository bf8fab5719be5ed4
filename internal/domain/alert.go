package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AlertSeverityCritical = "critical"
	AlertSeverityWarning  = "warning"
)

// Alert codes
const (
	AlertCodeProjectedNegative = "PROJECTED_BALANCE_NEGATIVE"
	AlertCodeBelowThreshold    = "BALANCE_BELOW_THRESHOLD"
	AlertCodePaymentDueSoon    = "PAYMENT_DUE_SOON"
	AlertCodeCollectionOverdue = "COLLECTION_OVERDUE"
)

// Alert is a derived warning about the active week's cash position.
// Alerts are recomputed on every view and never persisted.
type Alert struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	ItemID   *uuid.UUID `json:"item_id,omitempty"`
}

// WeekSummary holds the derived totals for a week. All values are computed
// from the opening balance and the week's line items, never stored.
type WeekSummary struct {
	ExpectedCollections decimal.Decimal `json:"expected_collections"`
	ScheduledPayments   decimal.Decimal `json:"scheduled_payments"`
	ProjectedEndBalance decimal.Decimal `json:"projected_end_balance"`
	ActualCollections   decimal.Decimal `json:"actual_collections"`
	ActualPayments      decimal.Decimal `json:"actual_payments"`
	ActualBalance       decimal.Decimal `json:"actual_balance"`
	Variance            decimal.Decimal `json:"variance"`
}

// MonthlyPaymentDay is a read-only projection of payment obligations due on a
// single calendar day. One entry exists per day of the queried month.
type MonthlyPaymentDay struct {
	Date         time.Time       `json:"date"`
	Count        int             `json:"count"`
	Descriptions []string        `json:"descriptions"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
