package service

import (
	"fmt"
	"time"

	"github.com/opsdash/liquidity-engine/internal/domain"
	"github.com/opsdash/liquidity-engine/pkg/utils"
)

// Summarize computes the derived totals for a week from its opening balance
// and line items. With zero items every balance equals the opening balance.
func Summarize(week *domain.LiquidityWeek, items []*domain.LiquidityLineItem) *domain.WeekSummary {
	summary := &domain.WeekSummary{}

	for _, item := range items {
		switch item.ItemType {
		case domain.ItemTypeCollection:
			summary.ExpectedCollections = summary.ExpectedCollections.Add(item.ExpectedAmount)
			summary.ActualCollections = summary.ActualCollections.Add(item.ActualAmount)
		case domain.ItemTypePayment:
			summary.ScheduledPayments = summary.ScheduledPayments.Add(item.ExpectedAmount)
			summary.ActualPayments = summary.ActualPayments.Add(item.ActualAmount)
		}
	}

	summary.ProjectedEndBalance = week.OpeningBalance.
		Add(summary.ExpectedCollections).
		Sub(summary.ScheduledPayments)
	summary.ActualBalance = week.OpeningBalance.
		Add(summary.ActualCollections).
		Sub(summary.ActualPayments)
	summary.Variance = summary.ActualBalance.Sub(summary.ProjectedEndBalance)

	return summary
}

// EvaluateAlerts produces the alert list for a week. Critical balance alerts
// come first, then one warning per pending payment due inside [now,
// now+dueSoonWindow] (endpoints inclusive), then one warning per pending
// collection whose due date has already passed. Alerts are derived on every
// call and never persisted.
func EvaluateAlerts(
	week *domain.LiquidityWeek,
	items []*domain.LiquidityLineItem,
	summary *domain.WeekSummary,
	now time.Time,
	dueSoonWindow time.Duration,
) []*domain.Alert {
	alerts := []*domain.Alert{}

	if summary.ProjectedEndBalance.IsNegative() {
		alerts = append(alerts, &domain.Alert{
			Severity: domain.AlertSeverityCritical,
			Code:     domain.AlertCodeProjectedNegative,
			Message:  fmt.Sprintf("Projected end balance is negative (%s)", summary.ProjectedEndBalance.StringFixed(2)),
		})
	}

	if week.AlertThreshold.IsPositive() && summary.ActualBalance.LessThan(week.AlertThreshold) {
		alerts = append(alerts, &domain.Alert{
			Severity: domain.AlertSeverityCritical,
			Code:     domain.AlertCodeBelowThreshold,
			Message: fmt.Sprintf("Actual balance %s is below the alert threshold %s",
				summary.ActualBalance.StringFixed(2), week.AlertThreshold.StringFixed(2)),
		})
	}

	for _, item := range items {
		if item.ItemType != domain.ItemTypePayment || item.Status != domain.ItemStatusPending || item.DueDate == nil {
			continue
		}
		if utils.IsDueWithin(*item.DueDate, now, dueSoonWindow) {
			itemID := item.ID
			alerts = append(alerts, &domain.Alert{
				Severity: domain.AlertSeverityWarning,
				Code:     domain.AlertCodePaymentDueSoon,
				Message:  fmt.Sprintf("Payment due soon: %s (%s)", item.Description, item.DueDate.Format("2006-01-02")),
				ItemID:   &itemID,
			})
		}
	}

	for _, item := range items {
		if item.ItemType != domain.ItemTypeCollection || item.Status != domain.ItemStatusPending || item.DueDate == nil {
			continue
		}
		if utils.IsDateOverdue(*item.DueDate, now) {
			itemID := item.ID
			alerts = append(alerts, &domain.Alert{
				Severity: domain.AlertSeverityWarning,
				Code:     domain.AlertCodeCollectionOverdue,
				Message:  fmt.Sprintf("Collection overdue: %s (%s)", item.Description, item.DueDate.Format("2006-01-02")),
				ItemID:   &itemID,
			})
		}
	}

	return alerts
}
