package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-payroll/internal/attendance"
	"go-payroll/internal/benefit"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payslip"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/statutory"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of one process.
type Infra struct {
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

// Connect opens postgres and, when withRedis is set, redis.
func Connect(cfg *config.Config, withRedis bool) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresOptions{
		Host:     cfg.Database.Host,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Port:     cfg.Database.Port,
		SSLMode:  cfg.Database.SSLMode,
	}, cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{GormDB: gormDB, DB: sqlDB}
	if withRedis {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Database.MaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	_ = i.DB.Close()
}

// Migrate creates missing tables and seeds the tax brackets and role grants
// when their tables are empty.
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	err := db.WithContext(ctx).AutoMigrate(
		&employee.Department{},
		&employee.Employee{},
		&attendance.Record{},
		&benefit.Deduction{},
		&benefit.Allowance{},
		&benefit.EmployeeDeduction{},
		&benefit.EmployeeAllowance{},
		&statutory.TaxBracket{},
		&payroll.Period{},
		&payroll.Record{},
		&payroll.Component{},
		&payslip.Payslip{},
		&counter.Counter{},
		&kafka.OutboxRecord{},
		&rbac.RolePermission{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	seeded, err := statutory.NewBracketRepository(db).SeedDefaults(ctx, statutory.DefaultBrackets())
	if err != nil {
		return fmt.Errorf("seed tax brackets: %w", err)
	}
	if seeded {
		logger.Info("default tax brackets seeded")
	}

	if err := rbac.NewRepository(db).EnsurePermissions(ctx, rbac.DefaultPermissions()); err != nil {
		return fmt.Errorf("seed role permissions: %w", err)
	}
	return nil
}
