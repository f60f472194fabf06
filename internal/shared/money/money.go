// Package money holds the rounding rule shared by every payroll figure.
package money

import "github.com/shopspring/decimal"

const Places = 2

var Hundred = decimal.NewFromInt(100)

// Round rounds half away from zero to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds already rounded amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Clamp bounds d to [floor, ceiling]. A zero ceiling means no upper bound.
func Clamp(d, floor, ceiling decimal.Decimal) decimal.Decimal {
	if d.LessThan(floor) {
		d = floor
	}
	if ceiling.IsPositive() && d.GreaterThan(ceiling) {
		d = ceiling
	}
	return d
}
