package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/opsdash/liquidity-engine/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     string
	}{
		{"zero actual is pending", "5000", "0", domain.ItemStatusPending},
		{"partial payment", "5000", "1", domain.ItemStatusPartial},
		{"almost complete stays partial", "5000", "4999.99", domain.ItemStatusPartial},
		{"exact amount completes", "5000", "5000", domain.ItemStatusCompleted},
		{"overpayment completes", "5000", "5000.01", domain.ItemStatusCompleted},
		{"zero expected, zero actual is pending", "0", "0", domain.ItemStatusPending},
		{"zero expected, any actual completes", "0", "10", domain.ItemStatusCompleted},
		{"fractional expected exact match", "1234.56", "1234.56", domain.ItemStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, err := decimal.NewFromString(tt.expected)
			assert.NoError(t, err)
			actual, err := decimal.NewFromString(tt.actual)
			assert.NoError(t, err)

			assert.Equal(t, tt.want, domain.DeriveStatus(expected, actual))
		})
	}
}
