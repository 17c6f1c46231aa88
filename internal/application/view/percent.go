package view

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentChange returns the change from previous to current as a percentage
// of |previous|, rounded to two places. When previous is zero the result is
// 100, 0 or -100 depending on the sign of current.
func PercentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return hundred
		case -1:
			return hundred.Neg()
		default:
			return decimal.Zero
		}
	}
	return current.Sub(previous).
		Div(previous.Abs()).
		Mul(hundred).
		Round(2)
}
