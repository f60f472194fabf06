package statutory

import (
	"fmt"
	"sort"

	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

// Bracket is one step of the cumulative income tax table. A zero Max marks
// the open-ended top bracket.
type Bracket struct {
	Min   decimal.Decimal
	Max   decimal.Decimal
	Rate  decimal.Decimal
	Fixed decimal.Decimal
}

func (b Bracket) open() bool { return b.Max.IsZero() }

// taxAtMax evaluates the bracket formula at its own upper bound.
func (b Bracket) taxAtMax() decimal.Decimal {
	return b.Fixed.Add(b.Max.Sub(b.Min).Mul(b.Rate))
}

// IncomeTax returns fixed + (g − min) × rate for the bracket containing g.
// Income below the lowest bracket is untaxed; income past a closed top
// bracket keeps using its formula.
func IncomeTax(g decimal.Decimal, brackets []Bracket) decimal.Decimal {
	if !g.IsPositive() || len(brackets) == 0 {
		return decimal.Zero
	}

	sorted := sortBrackets(brackets)
	if g.LessThan(sorted[0].Min) {
		return decimal.Zero
	}

	chosen := sorted[0]
	for _, b := range sorted {
		if g.GreaterThanOrEqual(b.Min) {
			chosen = b
			continue
		}
		break
	}

	return money.Round(money.NonNegative(chosen.Fixed.Add(g.Sub(chosen.Min).Mul(chosen.Rate))))
}

// ValidateBrackets reports gaps, overlaps, an open bracket that is not last,
// and fixed amounts that would make tax jump at a boundary.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return ErrNoBrackets
	}

	sorted := sortBrackets(brackets)
	tolerance := decimal.RequireFromString("0.01")

	for i, b := range sorted {
		if b.Rate.IsNegative() || b.Fixed.IsNegative() {
			return fmt.Errorf("%w: bracket starting at %s has a negative rate or fixed amount", ErrInvalidBrackets, b.Min)
		}
		if !b.open() && b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("%w: bracket starting at %s ends at %s", ErrInvalidBrackets, b.Min, b.Max)
		}
		if i == len(sorted)-1 {
			break
		}

		next := sorted[i+1]
		if b.open() {
			return fmt.Errorf("%w: open bracket at %s is not the last one", ErrInvalidBrackets, b.Min)
		}
		switch {
		case next.Min.GreaterThan(b.Max):
			return fmt.Errorf("%w: gap between %s and %s", ErrInvalidBrackets, b.Max, next.Min)
		case next.Min.LessThan(b.Max):
			return fmt.Errorf("%w: brackets overlap at %s", ErrInvalidBrackets, next.Min)
		}

		if b.taxAtMax().Sub(next.Fixed).Abs().GreaterThan(tolerance) {
			return fmt.Errorf("%w: tax jumps from %s to %s at %s",
				ErrInvalidBrackets, b.taxAtMax().StringFixed(2), next.Fixed.StringFixed(2), next.Min)
		}
	}

	return nil
}

func sortBrackets(brackets []Bracket) []Bracket {
	sorted := append([]Bracket(nil), brackets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min.LessThan(sorted[j].Min) })
	return sorted
}

// DefaultBrackets is the graduated table seeded when tax_brackets is empty.
func DefaultBrackets() []Bracket {
	d := decimal.RequireFromString
	return []Bracket{
		{Min: d("0"), Max: d("250000"), Rate: d("0"), Fixed: d("0")},
		{Min: d("250000"), Max: d("400000"), Rate: d("0.20"), Fixed: d("0")},
		{Min: d("400000"), Max: d("800000"), Rate: d("0.25"), Fixed: d("30000")},
		{Min: d("800000"), Max: d("2000000"), Rate: d("0.30"), Fixed: d("130000")},
		{Min: d("2000000"), Max: d("8000000"), Rate: d("0.32"), Fixed: d("490000")},
		{Min: d("8000000"), Rate: d("0.35"), Fixed: d("2410000")},
	}
}
