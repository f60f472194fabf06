package connection_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sample struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func TestBindTx_RollbackDiscardsWrites(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&sample{}))

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	bound := connection.BindTx(db, tx)
	require.NoError(t, bound.Create(&sample{ID: 1, Name: "a"}).Error)
	require.NoError(t, tx.Rollback())

	var count int64
	require.NoError(t, db.Model(&sample{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestBindTx_NilTxReturnsSameDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.Same(t, db, connection.BindTx(db, nil))
}

func TestPostgresOptionsDSN(t *testing.T) {
	dsn := connection.PostgresOptions{
		Host: "db", User: "payroll", Password: "secret", Name: "payroll", Port: "5432", SSLMode: "disable",
	}.DSN()
	assert.Equal(t, "host=db user=payroll password=secret dbname=payroll port=5432 sslmode=disable", dsn)
}
