package employee

import (
	"context"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/shared/response"

	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
}

type service struct {
	registry     Registry
	hoursPerDay  int
	daysPerMonth int
	logger       *zap.Logger
}

func NewService(registry Registry, hoursPerDay, daysPerMonth int, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{registry: registry, hoursPerDay: hoursPerDay, daysPerMonth: daysPerMonth, logger: l}
}

func (s *service) List(ctx context.Context, q ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error) {
	offset, limit := response.Paginate(q.Page, q.PageSize)

	rows, total, err := s.registry.List(ctx, q, offset, limit)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]EmployeeResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, mapToResponse(e, s.hoursPerDay, s.daysPerMonth))
	}
	return out, response.NewPaginationMeta(total, offset/limit+1, limit), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	if id <= 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.registry.FindByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e, s.hoursPerDay, s.daysPerMonth), nil
}
