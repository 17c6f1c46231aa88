package invoicing

import (
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts are rounded to
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LineInput is the caller-supplied part of a document line
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // percent, 0..100
}

// LineItem holds a priced line. Derived amounts are always recomputed from
// quantity, unit price and tax rate.
type LineItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Description  string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"tax_rate"`
	LineSubtotal decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_subtotal"`
	LineTax      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_tax"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	SortOrder    int             `gorm:"not null;default:0" json:"sort_order"`
}

// ComputeLine returns subtotal = qty*price, tax = subtotal*rate/100 and
// total = subtotal+tax, each rounded to MoneyPlaces.
func ComputeLine(quantity, unitPrice, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = quantity.Mul(unitPrice).Round(MoneyPlaces)
	tax = subtotal.Mul(taxRate).Div(hundred).Round(MoneyPlaces)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

func newLineItem(in LineInput, sortOrder int) (LineItem, error) {
	if err := validateLine(in); err != nil {
		return LineItem{}, err
	}
	subtotal, tax, total := ComputeLine(in.Quantity, in.UnitPrice, in.TaxRate)
	return LineItem{
		ID:           uuid.New(),
		Description:  strings.TrimSpace(in.Description),
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		TaxRate:      in.TaxRate,
		LineSubtotal: subtotal,
		LineTax:      tax,
		LineTotal:    total,
		SortOrder:    sortOrder,
	}, nil
}

func validateLine(in LineInput) error {
	if strings.TrimSpace(in.Description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}

// buildLines prices every input. At least one line is required.
func buildLines(inputs []LineInput) ([]LineItem, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "At least one line item is required")
	}
	lines := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		line, err := newLineItem(in, i)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Totals are the document-level sums of the line amounts
type Totals struct {
	Subtotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_total"`
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
}

// SumLines totals the given lines
func SumLines(lines []LineItem) Totals {
	t := Totals{Subtotal: decimal.Zero, TaxTotal: decimal.Zero, Total: decimal.Zero}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.LineSubtotal)
		t.TaxTotal = t.TaxTotal.Add(l.LineTax)
		t.Total = t.Total.Add(l.LineTotal)
	}
	return t
}
