package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name                  string
		qty, price, rate      string
		subtotal, tax, total  string
	}{
		{"simple", "2", "50", "15", "100", "15", "115"},
		{"no tax", "3", "9.99", "0", "29.97", "0", "29.97"},
		{"rounds tax", "1", "10.05", "7.5", "10.05", "0.75", "10.80"},
		{"fractional quantity", "1.5", "3.33", "10", "5", "0.5", "5.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, tax, total := ComputeLine(dec(tt.qty), dec(tt.price), dec(tt.rate))
			assert.True(t, sub.Equal(dec(tt.subtotal)), "subtotal %s", sub)
			assert.True(t, tax.Equal(dec(tt.tax)), "tax %s", tax)
			assert.True(t, total.Equal(dec(tt.total)), "total %s", total)
		})
	}
}

func TestBuildLines_Validation(t *testing.T) {
	_, err := buildLines(nil)
	assert.Error(t, err)

	cases := []LineInput{
		{Description: "", Quantity: dec("1"), UnitPrice: dec("1")},
		{Description: "x", Quantity: dec("0"), UnitPrice: dec("1")},
		{Description: "x", Quantity: dec("1"), UnitPrice: dec("-1")},
		{Description: "x", Quantity: dec("1"), UnitPrice: dec("1"), TaxRate: dec("101")},
		{Description: "x", Quantity: dec("1"), UnitPrice: dec("1"), TaxRate: dec("-5")},
	}
	for _, in := range cases {
		_, err := buildLines([]LineInput{in})
		assert.Error(t, err)
	}
}

func TestSumLines(t *testing.T) {
	lines, err := buildLines([]LineInput{
		{Description: "Consulting", Quantity: dec("10"), UnitPrice: dec("100"), TaxRate: dec("15")},
		{Description: "Travel", Quantity: dec("1"), UnitPrice: dec("250"), TaxRate: dec("0")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, lines[0].SortOrder)
	assert.Equal(t, 1, lines[1].SortOrder)

	totals := SumLines(lines)
	assert.True(t, totals.Subtotal.Equal(dec("1250")))
	assert.True(t, totals.TaxTotal.Equal(dec("150")))
	assert.True(t, totals.Total.Equal(dec("1400")))
}
