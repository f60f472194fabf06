package statutory

import (
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// HealthSchedule: contribution = clamp(salary, Floor, Ceiling) × Rate × EmployeeShare.
// Rate is the nominal premium; EmployeeShare the part withheld from the employee.
type HealthSchedule struct {
	Rate          decimal.Decimal
	EmployeeShare decimal.Decimal
	Floor         decimal.Decimal
	Ceiling       decimal.Decimal
}

func (h HealthSchedule) Contribution(salary decimal.Decimal) decimal.Decimal {
	if !salary.IsPositive() {
		return decimal.Zero
	}
	base := money.Clamp(salary, h.Floor, h.Ceiling)
	return money.Round(base.Mul(h.Rate).Mul(h.EmployeeShare))
}

// HousingSchedule applies RateLow up to and including Threshold and RateHigh
// above it. The base is capped at Cap when Cap is positive.
type HousingSchedule struct {
	Threshold decimal.Decimal
	RateLow   decimal.Decimal
	RateHigh  decimal.Decimal
	Cap       decimal.Decimal
}

func (h HousingSchedule) Contribution(salary decimal.Decimal) decimal.Decimal {
	if !salary.IsPositive() {
		return decimal.Zero
	}
	rate := h.RateHigh
	if salary.LessThanOrEqual(h.Threshold) {
		rate = h.RateLow
	}
	base := salary
	if h.Cap.IsPositive() && base.GreaterThan(h.Cap) {
		base = h.Cap
	}
	return money.Round(base.Mul(rate))
}
