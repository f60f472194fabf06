package statutory

import (
	"errors"
	"testing"

	"go-payroll/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultTiers() TieredSchedule {
	bands := make([]Band, 0, 10)
	for i := int64(1); i <= 10; i++ {
		bands = append(bands, Band{UpTo: decimal.NewFromInt(i * 1000), Amount: decimal.NewFromInt(i * 50)})
	}
	return NewTieredSchedule(bands, dec("500"))
}

func TestTieredSchedule(t *testing.T) {
	s := defaultTiers()

	cases := []struct {
		salary string
		want   string
	}{
		{"0", "0"},
		{"-10", "0"},
		{"1", "50"},
		{"1000", "50"},
		{"1000.01", "100"},
		{"5500", "300"},
		{"10000", "500"},
		{"250000", "500"},
	}
	for _, tc := range cases {
		t.Run(tc.salary, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Contribution(dec(tc.salary)).String())
		})
	}
}

func TestTieredSchedule_UnsortedBands(t *testing.T) {
	s := NewTieredSchedule([]Band{
		{UpTo: dec("2000"), Amount: dec("100")},
		{UpTo: dec("1000"), Amount: dec("50")},
	}, dec("150"))

	assert.Equal(t, "50", s.Contribution(dec("900")).String())
	assert.Equal(t, "150", s.Contribution(dec("2500")).String())
}

func TestPercentageSchedule(t *testing.T) {
	s := PercentageSchedule{Rate: dec("0.045"), Floor: dec("4000"), Ceiling: dec("30000")}

	assert.Equal(t, "180.00", s.Contribution(dec("1000")).StringFixed(2))
	assert.Equal(t, "900.00", s.Contribution(dec("20000")).StringFixed(2))
	assert.Equal(t, "1350.00", s.Contribution(dec("99999")).StringFixed(2))
	assert.True(t, s.Contribution(decimal.Zero).IsZero())
}

func TestHealthSchedule_UsesEmployeeShare(t *testing.T) {
	h := HealthSchedule{Rate: dec("0.05"), EmployeeShare: dec("0.5"), Floor: dec("10000"), Ceiling: dec("100000")}

	assert.Equal(t, "250.00", h.Contribution(dec("8000")).StringFixed(2))
	assert.Equal(t, "500.00", h.Contribution(dec("20000")).StringFixed(2))
	assert.Equal(t, "2500.00", h.Contribution(dec("150000")).StringFixed(2))
}

func TestHousingSchedule(t *testing.T) {
	h := HousingSchedule{Threshold: dec("1500"), RateLow: dec("0.01"), RateHigh: dec("0.02"), Cap: dec("5000")}

	assert.Equal(t, "15.00", h.Contribution(dec("1500")).StringFixed(2))
	assert.Equal(t, "30.02", h.Contribution(dec("1501")).StringFixed(2))
	assert.Equal(t, "100.00", h.Contribution(dec("40000")).StringFixed(2))

	uncapped := HousingSchedule{Threshold: dec("1500"), RateLow: dec("0.01"), RateHigh: dec("0.02")}
	assert.Equal(t, "800.00", uncapped.Contribution(dec("40000")).StringFixed(2))
}

func TestIncomeTax_BracketBoundaries(t *testing.T) {
	brackets := DefaultBrackets()

	cases := []struct {
		name  string
		gross string
		want  string
	}{
		{"zero", "0", "0.00"},
		{"first bracket", "100000", "0.00"},
		{"at 250000", "250000", "0.00"},
		{"just above 250000", "250001", "0.20"},
		{"at 400000", "400000", "30000.00"},
		{"mid third", "600000", "80000.00"},
		{"at 800000", "800000", "130000.00"},
		{"at 2000000", "2000000", "490000.00"},
		{"at 8000000", "8000000", "2410000.00"},
		{"open top", "9000000", "2760000.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IncomeTax(dec(tc.gross), brackets).StringFixed(2))
		})
	}
}

func TestIncomeTax_BelowLowestBracketIsZero(t *testing.T) {
	brackets := []Bracket{{Min: dec("10000"), Max: dec("20000"), Rate: dec("0.1")}}
	assert.True(t, IncomeTax(dec("9999.99"), brackets).IsZero())
	assert.Equal(t, "100.00", IncomeTax(dec("11000"), brackets).StringFixed(2))
	// past a closed top bracket the last formula still applies
	assert.Equal(t, "1500.00", IncomeTax(dec("25000"), brackets).StringFixed(2))
}

func TestIncomeTax_MonotonicAcrossBoundaries(t *testing.T) {
	brackets := DefaultBrackets()
	step := dec("0.01")

	for _, b := range brackets[1:] {
		before := IncomeTax(b.Min.Sub(step), brackets)
		at := IncomeTax(b.Min, brackets)
		after := IncomeTax(b.Min.Add(step), brackets)

		assert.True(t, at.GreaterThanOrEqual(before), "drop at %s: %s -> %s", b.Min, before, at)
		assert.True(t, after.GreaterThanOrEqual(at), "drop after %s: %s -> %s", b.Min, at, after)
	}

	prev := decimal.Zero
	for g := int64(0); g <= 10_000_000; g += 50_000 {
		tax := IncomeTax(decimal.NewFromInt(g), brackets)
		require.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at %d", g)
		prev = tax
	}
}

func TestValidateBrackets(t *testing.T) {
	assert.NoError(t, ValidateBrackets(DefaultBrackets()))
	assert.True(t, errors.Is(ValidateBrackets(nil), ErrNoBrackets))

	gap := DefaultBrackets()
	gap[2].Min = dec("410000")
	assert.ErrorIs(t, ValidateBrackets(gap), ErrInvalidBrackets)

	overlap := DefaultBrackets()
	overlap[2].Min = dec("390000")
	assert.ErrorIs(t, ValidateBrackets(overlap), ErrInvalidBrackets)

	jump := DefaultBrackets()
	jump[3].Fixed = dec("100000")
	err := ValidateBrackets(jump)
	assert.ErrorIs(t, err, ErrInvalidBrackets)
	assert.Contains(t, err.Error(), "jumps")

	openMiddle := DefaultBrackets()
	openMiddle[1].Max = decimal.Zero
	assert.ErrorIs(t, ValidateBrackets(openMiddle), ErrInvalidBrackets)
}

func TestNewCalculator(t *testing.T) {
	cfg := config.StatutoryConfig{
		Social: config.SocialInsuranceConfig{
			Strategy: StrategyPercentage,
			Rate:     dec("0.045"), Floor: dec("4000"), Ceiling: dec("30000"),
		},
		Health:  config.HealthInsuranceConfig{Rate: dec("0.05"), EmployeeShare: dec("0.5"), Floor: dec("10000"), Ceiling: dec("100000")},
		Housing: config.HousingFundConfig{Threshold: dec("1500"), RateLow: dec("0.01"), RateHigh: dec("0.02"), Cap: dec("5000")},
	}

	calc, err := NewCalculator(cfg)
	require.NoError(t, err)
	assert.Equal(t, StrategyPercentage, calc.Social.Name())

	c := calc.Contributions(dec("20000"))
	assert.Equal(t, "900.00", c.Social.StringFixed(2))
	assert.Equal(t, "500.00", c.Health.StringFixed(2))
	assert.Equal(t, "100.00", c.Housing.StringFixed(2))
	assert.Equal(t, "1500.00", c.Total().StringFixed(2))

	cfg.Social.Strategy = "flat"
	_, err = NewCalculator(cfg)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestCalculator_TieredFromConfig(t *testing.T) {
	calc, err := NewCalculator(config.StatutoryConfig{
		Social: config.SocialInsuranceConfig{
			Strategy: StrategyTiered,
			Tiers:    []config.TierConfig{{UpTo: dec("1000"), Amount: dec("50")}},
			TierMax:  dec("100"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "50", calc.SocialInsurance(dec("800")).String())
	assert.Equal(t, "100", calc.SocialInsurance(dec("8000")).String())
}
