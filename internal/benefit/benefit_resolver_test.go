package benefit_test

import (
	"context"
	"testing"

	"go-payroll/internal/benefit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&benefit.Deduction{}, &benefit.Allowance{},
		&benefit.EmployeeDeduction{}, &benefit.EmployeeAllowance{},
	))
	return db
}

func TestAmount(t *testing.T) {
	cases := []struct {
		name string
		rule benefit.Rule
		base string
		want string
	}{
		{"fixed ignores base", benefit.Rule{Kind: benefit.KindFixed, Amount: d("1500")}, "20000", "1500.00"},
		{"fixed negative is zero", benefit.Rule{Kind: benefit.KindFixed, Amount: d("-10")}, "20000", "0.00"},
		{"percentage of base", benefit.Rule{Kind: benefit.KindPercentage, Percentage: d("10")}, "12345.67", "1234.57"},
		{"percentage of zero base", benefit.Rule{Kind: benefit.KindPercentage, Percentage: d("5")}, "0", "0.00"},
		{"unknown kind", benefit.Rule{Kind: "OTHER", Amount: d("99")}, "100", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, benefit.Amount(tc.rule, d(tc.base)).StringFixed(2))
		})
	}
}

func TestResolver_SQLite(t *testing.T) {
	db := newTestDB(t)
	repo := benefit.NewRepository(db)
	ctx := context.Background()

	rice := benefit.Allowance{ID: uuid.New(), Name: "Rice subsidy", Kind: benefit.KindFixed, Amount: d("1500"), Active: true}
	hazard := benefit.Allowance{ID: uuid.New(), Name: "Hazard pay", Kind: benefit.KindPercentage, Percentage: d("10"), Active: true}
	retired := benefit.Allowance{ID: uuid.New(), Name: "Clothing", Kind: benefit.KindFixed, Amount: d("6000"), Active: false}
	for _, a := range []*benefit.Allowance{&rice, &hazard, &retired} {
		require.NoError(t, repo.CreateAllowance(ctx, a))
	}

	loan := benefit.Deduction{ID: uuid.New(), Name: "Salary loan", Kind: benefit.KindFixed, Amount: d("2000"), Active: true}
	coop := benefit.Deduction{ID: uuid.New(), Name: "Cooperative", Kind: benefit.KindPercentage, Percentage: d("2.5"), Active: true}
	for _, x := range []*benefit.Deduction{&loan, &coop} {
		require.NoError(t, repo.CreateDeduction(ctx, x))
	}

	const emp = int64(1023)
	for _, a := range []benefit.Allowance{rice, hazard, retired} {
		require.NoError(t, repo.AssignAllowance(ctx, &benefit.EmployeeAllowance{ID: uuid.New(), EmployeeID: emp, AllowanceID: a.ID, Active: true}))
	}
	require.NoError(t, repo.AssignDeduction(ctx, &benefit.EmployeeDeduction{ID: uuid.New(), EmployeeID: emp, DeductionID: loan.ID, Active: true}))
	require.NoError(t, repo.AssignDeduction(ctx, &benefit.EmployeeDeduction{ID: uuid.New(), EmployeeID: emp, DeductionID: coop.ID, Active: true}))
	// deactivating the link drops the loan
	require.NoError(t, repo.AssignDeduction(ctx, &benefit.EmployeeDeduction{ID: uuid.New(), EmployeeID: emp, DeductionID: loan.ID, Active: false}))

	resolver := benefit.NewResolver(repo)

	allowances, err := resolver.Allowances(ctx, emp, d("12345.67"))
	require.NoError(t, err)
	assert.Len(t, allowances.Lines, 2)
	assert.Equal(t, "2734.57", allowances.Total.StringFixed(2))

	deductions, err := resolver.Deductions(ctx, emp, d("20000"))
	require.NoError(t, err)
	require.Len(t, deductions.Lines, 1)
	assert.Equal(t, "Cooperative", deductions.Lines[0].Name)
	assert.Equal(t, "500.00", deductions.Total.StringFixed(2))

	none, err := resolver.Deductions(ctx, 9999, d("20000"))
	require.NoError(t, err)
	assert.True(t, none.Total.IsZero())
	assert.Empty(t, none.Lines)
}
