package statutory

import (
	"sort"

	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

const (
	StrategyTiered     = "tiered"
	StrategyPercentage = "percentage"
)

// SocialInsuranceStrategy computes the employee social-insurance share from
// a monthly salary base.
type SocialInsuranceStrategy interface {
	Name() string
	Contribution(salary decimal.Decimal) decimal.Decimal
}

type Band struct {
	UpTo   decimal.Decimal
	Amount decimal.Decimal
}

// TieredSchedule maps salary bands to fixed amounts and saturates at Max
// above the top band.
type TieredSchedule struct {
	Bands []Band
	Max   decimal.Decimal
}

func NewTieredSchedule(bands []Band, max decimal.Decimal) TieredSchedule {
	sorted := append([]Band(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UpTo.LessThan(sorted[j].UpTo) })
	return TieredSchedule{Bands: sorted, Max: max}
}

func (TieredSchedule) Name() string { return StrategyTiered }

func (t TieredSchedule) Contribution(salary decimal.Decimal) decimal.Decimal {
	if !salary.IsPositive() {
		return decimal.Zero
	}
	for _, b := range t.Bands {
		if salary.LessThanOrEqual(b.UpTo) {
			return money.Round(b.Amount)
		}
	}
	return money.Round(t.Max)
}

// PercentageSchedule charges Rate of the salary clamped to [Floor, Ceiling].
type PercentageSchedule struct {
	Rate    decimal.Decimal
	Floor   decimal.Decimal
	Ceiling decimal.Decimal
}

func (PercentageSchedule) Name() string { return StrategyPercentage }

func (p PercentageSchedule) Contribution(salary decimal.Decimal) decimal.Decimal {
	if !salary.IsPositive() {
		return decimal.Zero
	}
	return money.Round(money.Clamp(salary, p.Floor, p.Ceiling).Mul(p.Rate))
}
