package benefit

import (
	"context"
	"fmt"

	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Line struct {
	BenefitID uuid.UUID
	Name      string
	Kind      string
	Amount    decimal.Decimal
}

type Aggregate struct {
	Total decimal.Decimal
	Lines []Line
}

// Amount is the contribution of one rule: the fixed amount, or
// percentage/100 of base. Rounded to cents.
func Amount(r Rule, base decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case KindFixed:
		return money.Round(money.NonNegative(r.Amount))
	case KindPercentage:
		return money.Round(money.NonNegative(base).Mul(r.Percentage).Div(money.Hundred))
	default:
		return decimal.Zero
	}
}

func aggregate(rules []Rule, base decimal.Decimal) Aggregate {
	agg := Aggregate{Total: decimal.Zero, Lines: make([]Line, 0, len(rules))}
	for _, r := range rules {
		amount := Amount(r, base)
		agg.Lines = append(agg.Lines, Line{BenefitID: r.ID, Name: r.Name, Kind: r.Kind, Amount: amount})
		agg.Total = agg.Total.Add(amount)
	}
	return agg
}

// Resolver totals an employee's linked allowances and deductions.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Allowances uses the gross computed so far as the percentage base.
func (r *Resolver) Allowances(ctx context.Context, employeeID int64, grossSoFar decimal.Decimal) (Aggregate, error) {
	rows, err := r.repo.ActiveAllowances(ctx, employeeID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("load allowances for employee %d: %w", employeeID, err)
	}
	rules := make([]Rule, 0, len(rows))
	for _, a := range rows {
		rules = append(rules, a.Rule())
	}
	return aggregate(rules, grossSoFar), nil
}

// Deductions uses the basic salary as the percentage base.
func (r *Resolver) Deductions(ctx context.Context, employeeID int64, basicSalary decimal.Decimal) (Aggregate, error) {
	rows, err := r.repo.ActiveDeductions(ctx, employeeID)
	if err != nil {
		return Aggregate{}, fmt.Errorf("load deductions for employee %d: %w", employeeID, err)
	}
	rules := make([]Rule, 0, len(rows))
	for _, d := range rows {
		rules = append(rules, d.Rule())
	}
	return aggregate(rules, basicSalary), nil
}
