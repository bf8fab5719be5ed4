package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeekStart returns the Monday at midnight UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday counts Sunday as 0; shift so Monday is 0
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// MonthBounds returns the first day of the month and the first day of the
// following month, both at midnight UTC.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	start, end := MonthBounds(year, month)
	return int(end.Sub(start).Hours() / 24)
}

// IsDateOverdue checks if a due date is strictly before now.
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// IsDueWithin checks if a due date falls inside [now, now+window], both
// endpoints inclusive.
func IsDueWithin(dueDate, now time.Time, window time.Duration) bool {
	if dueDate.Before(now) {
		return false
	}
	return !dueDate.After(now.Add(window))
}

// DecimalOrZero unwraps a nullable decimal, treating null as zero.
func DecimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
