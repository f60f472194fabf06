package counter_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/counter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetNextValue_IncrementsPerType(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&counter.Counter{}))

	repo := counter.NewRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.GetNextValue(ctx, counter.TypePayslip)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := repo.GetNextValue(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}
