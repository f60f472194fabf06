package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID int64
	From       *time.Time
	To         *time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// InsertIfAbsent reports whether r was written; an existing
	// (employee_id, attendance_date) row is left untouched.
	InsertIfAbsent(ctx context.Context, r *Record) (bool, error)
	// Upsert writes r, replacing the clock-derived columns of an existing row.
	Upsert(ctx context.Context, r *Record) error
	FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error)
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]Record, int64, error)
	ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]Record, error)
	Totals(ctx context.Context, employeeID int64, from, to time.Time) (HoursTotals, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) InsertIfAbsent(ctx context.Context, rec *Record) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Upsert(ctx context.Context, rec *Record) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"clock_in", "clock_out", "status", "working_hours",
				"overtime_hours", "holiday_hours", "night_hours",
				"source", "remarks", "updated_at",
			}),
		}).
		Create(rec).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error) {
	var rec Record
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", DateOnly(date)).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]Record, int64, error) {
	q := r.conn(ctx).Model(&Record{})
	if filter.EmployeeID > 0 {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("attendance_date >= ?", DateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("attendance_date <= ?", DateOnly(*filter.To))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Record
	err := q.Order("attendance_date DESC, employee_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) ListRange(ctx context.Context, employeeID int64, from, to time.Time) ([]Record, error) {
	var rows []Record
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ? AND attendance_date <= ?", DateOnly(from), DateOnly(to)).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

// Totals is summed in Go so the result keeps exact decimal precision on
// every driver.
func (r *repository) Totals(ctx context.Context, employeeID int64, from, to time.Time) (HoursTotals, error) {
	rows, err := r.ListRange(ctx, employeeID, from, to)
	if err != nil {
		return HoursTotals{}, err
	}
	var totals HoursTotals
	for _, rec := range rows {
		totals = totals.add(rec)
	}
	return totals, nil
}
