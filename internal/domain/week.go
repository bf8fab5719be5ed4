package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiquidityWeek is one week of cash-flow planning, anchored to a Monday start date.
// At most one week may exist per week_start date.
type LiquidityWeek struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	WeekStart      time.Time       `json:"week_start" db:"week_start"`
	OpeningBalance decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	AlertThreshold decimal.Decimal `json:"alert_threshold" db:"alert_threshold"`
	Notes          string          `json:"notes" db:"notes"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// WeekUpdate is a partial update of a week's top-level fields. Nil means unchanged.
type WeekUpdate struct {
	OpeningBalance *decimal.Decimal
	AlertThreshold *decimal.Decimal
	Notes          *string
}

// DTOs for requests and responses

type CreateWeekRequest struct {
	WeekStart      string          `json:"week_start" validate:"required,datetime=2006-01-02"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	Notes          string          `json:"notes"`
}

type UpdateWeekRequest struct {
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

type WeekDetailResponse struct {
	Week    *LiquidityWeek       `json:"week"`
	Items   []*LiquidityLineItem `json:"items"`
	Summary *WeekSummary         `json:"summary"`
	Alerts  []*Alert             `json:"alerts"`
}
