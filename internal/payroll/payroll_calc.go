package payroll

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/benefit"
	"go-payroll/internal/config"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rates holds the premiums applied to attendance-derived hours.
type Rates struct {
	HoursPerDay  int
	DaysPerMonth int
	Overtime     decimal.Decimal
	Holiday      decimal.Decimal
	Night        decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		HoursPerDay:  8,
		DaysPerMonth: 22,
		Overtime:     decimal.RequireFromString("1.25"),
		Holiday:      decimal.RequireFromString("2.0"),
		Night:        decimal.RequireFromString("0.10"),
	}
}

func RatesFromConfig(cfg config.PayrollConfig) Rates {
	r := DefaultRates()
	if cfg.HoursPerDay > 0 {
		r.HoursPerDay = cfg.HoursPerDay
	}
	if cfg.DaysPerMonth > 0 {
		r.DaysPerMonth = cfg.DaysPerMonth
	}
	if cfg.OvertimeMultiplier.IsPositive() {
		r.Overtime = cfg.OvertimeMultiplier
	}
	if cfg.HolidayMultiplier.IsPositive() {
		r.Holiday = cfg.HolidayMultiplier
	}
	if cfg.NightMultiplier.IsPositive() {
		r.Night = cfg.NightMultiplier
	}
	return r
}

type Earnings struct {
	HourlyRate        decimal.Decimal
	Hours             attendance.HoursTotals
	BasicSalary       decimal.Decimal
	OvertimePay       decimal.Decimal
	HolidayPay        decimal.Decimal
	NightDifferential decimal.Decimal
}

// ComputeEarnings prices the period's hours. A missing or negative rate
// yields zero pay.
func ComputeEarnings(hourlyRate decimal.Decimal, hours attendance.HoursTotals, rates Rates) Earnings {
	rate := money.NonNegative(hourlyRate)
	return Earnings{
		HourlyRate:        rate,
		Hours:             hours,
		BasicSalary:       money.Round(rate.Mul(money.NonNegative(hours.Working))),
		OvertimePay:       money.Round(rate.Mul(rates.Overtime).Mul(money.NonNegative(hours.Overtime))),
		HolidayPay:        money.Round(rate.Mul(rates.Holiday).Mul(money.NonNegative(hours.Holiday))),
		NightDifferential: money.Round(rate.Mul(rates.Night).Mul(money.NonNegative(hours.Night))),
	}
}

// Subtotal is gross pay before allowances, the base for percentage allowances.
func (e Earnings) Subtotal() decimal.Decimal {
	return money.Sum(e.BasicSalary, e.OvertimePay, e.HolidayPay, e.NightDifferential)
}

// Worked reports whether the period has classified working hours. Premium
// hours alone leave the record ABSENT.
func (e Earnings) Worked() bool {
	return e.Hours.Working.IsPositive()
}

type Computation struct {
	Earnings
	Allowances      benefit.Aggregate
	Deductions      benefit.Aggregate
	Contributions   statutory.Contributions
	GrossPay        decimal.Decimal
	TaxableIncome   decimal.Decimal
	TaxWithheld     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// Compute finishes a payroll from priced earnings and the employee's resolved
// benefits. Contributions use basic salary; tax uses gross pay net of
// contributions and linked deductions, floored at zero.
func Compute(calc *statutory.Calculator, brackets []statutory.Bracket, e Earnings, allowances, deductions benefit.Aggregate) Computation {
	c := Computation{Earnings: e, Allowances: allowances, Deductions: deductions}
	c.GrossPay = money.Sum(e.Subtotal(), allowances.Total)
	c.Contributions = calc.Contributions(e.BasicSalary)
	c.TaxableIncome = money.Round(money.NonNegative(c.GrossPay.Sub(c.Contributions.Total()).Sub(deductions.Total)))
	c.TaxWithheld = calc.IncomeTax(c.TaxableIncome, brackets)
	c.TotalDeductions = money.Sum(c.Contributions.Total(), c.TaxWithheld, deductions.Total)
	c.NetPay = c.GrossPay.Sub(c.TotalDeductions)
	return c
}

// ZeroComputation is what an employee without attendance receives.
func ZeroComputation(e Earnings) Computation {
	zero := decimal.Zero
	return Computation{
		Earnings:        e,
		Allowances:      benefit.Aggregate{Total: zero},
		Deductions:      benefit.Aggregate{Total: zero},
		Contributions:   statutory.Contributions{Social: zero, Health: zero, Housing: zero},
		GrossPay:        zero,
		TaxableIncome:   zero,
		TaxWithheld:     zero,
		TotalDeductions: zero,
		NetPay:          zero,
	}
}

// Apply copies every figure onto rec.
func (c Computation) Apply(rec *Record) {
	rec.WorkingHours = c.Hours.Working
	rec.HourlyRate = c.HourlyRate.Round(4)
	rec.BasicSalary = c.BasicSalary
	rec.OvertimeHours = c.Hours.Overtime
	rec.OvertimePay = c.OvertimePay
	rec.HolidayHours = c.Hours.Holiday
	rec.HolidayPay = c.HolidayPay
	rec.NightHours = c.Hours.Night
	rec.NightDifferential = c.NightDifferential
	rec.Allowances = c.Allowances.Total
	rec.GrossPay = c.GrossPay
	rec.SocialInsurance = c.Contributions.Social
	rec.HealthInsurance = c.Contributions.Health
	rec.HousingFund = c.Contributions.Housing
	rec.TaxableIncome = c.TaxableIncome
	rec.TaxWithheld = c.TaxWithheld
	rec.OtherDeductions = c.Deductions.Total
	rec.TotalDeductions = c.TotalDeductions
	rec.NetPay = c.NetPay
}

// Components lists the breakdown lines: each allowance, each linked
// deduction and each non-zero statutory item.
func (c Computation) Components(payrollID uuid.UUID) []Component {
	out := make([]Component, 0, len(c.Allowances.Lines)+len(c.Deductions.Lines)+4)
	for _, l := range c.Allowances.Lines {
		out = append(out, Component{ID: uuid.New(), PayrollID: payrollID, ComponentType: ComponentAllowance, ComponentName: l.Name, Amount: l.Amount})
	}
	for _, l := range c.Deductions.Lines {
		out = append(out, Component{ID: uuid.New(), PayrollID: payrollID, ComponentType: ComponentDeduction, ComponentName: l.Name, Amount: l.Amount})
	}
	statutoryLines := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"Social insurance", c.Contributions.Social},
		{"Health insurance", c.Contributions.Health},
		{"Housing fund", c.Contributions.Housing},
		{"Withholding tax", c.TaxWithheld},
	}
	for _, s := range statutoryLines {
		if s.amount.IsZero() {
			continue
		}
		out = append(out, Component{ID: uuid.New(), PayrollID: payrollID, ComponentType: ComponentStatutory, ComponentName: s.name, Amount: s.amount})
	}
	return out
}
