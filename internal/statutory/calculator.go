package statutory

import (
	"fmt"

	"go-payroll/internal/config"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// Contributions are the three mandatory employee shares derived from basic pay.
type Contributions struct {
	Social  decimal.Decimal
	Health  decimal.Decimal
	Housing decimal.Decimal
}

func (c Contributions) Total() decimal.Decimal {
	return money.Sum(c.Social, c.Health, c.Housing)
}

// Calculator bundles the configured schedules. It holds no state besides
// configuration and is safe for concurrent use.
type Calculator struct {
	Social  SocialInsuranceStrategy
	Health  HealthSchedule
	Housing HousingSchedule
}

func NewCalculator(cfg config.StatutoryConfig) (*Calculator, error) {
	social, err := socialStrategy(cfg.Social)
	if err != nil {
		return nil, err
	}

	return &Calculator{
		Social: social,
		Health: HealthSchedule{
			Rate:          cfg.Health.Rate,
			EmployeeShare: cfg.Health.EmployeeShare,
			Floor:         cfg.Health.Floor,
			Ceiling:       cfg.Health.Ceiling,
		},
		Housing: HousingSchedule{
			Threshold: cfg.Housing.Threshold,
			RateLow:   cfg.Housing.RateLow,
			RateHigh:  cfg.Housing.RateHigh,
			Cap:       cfg.Housing.Cap,
		},
	}, nil
}

func socialStrategy(cfg config.SocialInsuranceConfig) (SocialInsuranceStrategy, error) {
	switch cfg.Strategy {
	case StrategyTiered, "":
		bands := make([]Band, 0, len(cfg.Tiers))
		for _, t := range cfg.Tiers {
			bands = append(bands, Band{UpTo: t.UpTo, Amount: t.Amount})
		}
		return NewTieredSchedule(bands, cfg.TierMax), nil
	case StrategyPercentage:
		return PercentageSchedule{Rate: cfg.Rate, Floor: cfg.Floor, Ceiling: cfg.Ceiling}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

func (c *Calculator) SocialInsurance(salary decimal.Decimal) decimal.Decimal {
	return c.Social.Contribution(salary)
}

func (c *Calculator) HealthInsurance(salary decimal.Decimal) decimal.Decimal {
	return c.Health.Contribution(salary)
}

func (c *Calculator) HousingFund(salary decimal.Decimal) decimal.Decimal {
	return c.Housing.Contribution(salary)
}

func (c *Calculator) Contributions(salary decimal.Decimal) Contributions {
	return Contributions{
		Social:  c.SocialInsurance(salary),
		Health:  c.HealthInsurance(salary),
		Housing: c.HousingFund(salary),
	}
}

func (c *Calculator) IncomeTax(taxable decimal.Decimal, brackets []Bracket) decimal.Decimal {
	return IncomeTax(taxable, brackets)
}
