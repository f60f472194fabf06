package employee

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Registry interface {
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, filter ListEmployeesQuery, offset, limit int) ([]Employee, int64, error)
}

type registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) Registry {
	return &registry{db: db}
}

func (r *registry) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *registry) FindByIDs(ctx context.Context, ids []int64) (map[int64]Employee, error) {
	out := make(map[int64]Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []Employee
	if err := r.db.WithContext(ctx).Preload("Department").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, e := range rows {
		out[e.ID] = e
	}
	return out, nil
}

func (r *registry) ListActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("active = ?", true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *registry) List(ctx context.Context, filter ListEmployeesQuery, offset, limit int) ([]Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if term := strings.TrimSpace(strings.ToLower(filter.Q)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(employee_code) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Employee
	err := q.Preload("Department").
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
