package benefit

import (
	"context"
	"strings"

	benefiterrors "go-payroll/internal/benefit/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/dberr"
	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=benefit_service.go -destination=mock/benefit_service_mock.go -package=mock
type Service interface {
	CreateDeduction(ctx context.Context, req CreateBenefitRequest) (BenefitResponse, error)
	CreateAllowance(ctx context.Context, req CreateBenefitRequest) (BenefitResponse, error)
	ListDeductions(ctx context.Context) ([]BenefitResponse, error)
	ListAllowances(ctx context.Context) ([]BenefitResponse, error)
	AssignDeduction(ctx context.Context, deductionID string, req AssignRequest) (AssignmentResponse, error)
	AssignAllowance(ctx context.Context, allowanceID string, req AssignRequest) (AssignmentResponse, error)
}

type service struct {
	repo      Repository
	employees employee.Registry
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Registry, logger ...*zap.Logger) Service {
	l := zap.L().Named("benefit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("benefit.service")
	}
	return &service{repo: repo, employees: employees, logger: l}
}

func validateRule(req *CreateBenefitRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Kind = strings.ToUpper(strings.TrimSpace(req.Kind))
	switch req.Kind {
	case KindFixed:
		if req.Amount.IsNegative() {
			return benefiterrors.ErrInvalidAmount
		}
		req.Percentage = decimal.Zero
	case KindPercentage:
		if req.Percentage.IsNegative() || req.Percentage.GreaterThan(money.Hundred) {
			return benefiterrors.ErrInvalidPercentage
		}
		req.Amount = decimal.Zero
	default:
		return benefiterrors.ErrInvalidKind
	}
	return nil
}

func activeOrDefault(v *bool) bool {
	return v == nil || *v
}

func (s *service) CreateDeduction(ctx context.Context, req CreateBenefitRequest) (BenefitResponse, error) {
	if err := validateRule(&req); err != nil {
		return BenefitResponse{}, err
	}
	d := &Deduction{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
		Amount:      money.Round(req.Amount),
		Percentage:  req.Percentage.Round(2),
		Active:      activeOrDefault(req.Active),
		IsMandatory: req.IsMandatory,
	}
	if err := s.repo.CreateDeduction(ctx, d); err != nil {
		if dberr.IsUniqueViolation(err) {
			return BenefitResponse{}, benefiterrors.ErrDuplicateName
		}
		return BenefitResponse{}, err
	}
	s.logger.Info("deduction created", zap.String("id", d.ID.String()), zap.String("name", d.Name))
	return mapDeduction(*d), nil
}

func (s *service) CreateAllowance(ctx context.Context, req CreateBenefitRequest) (BenefitResponse, error) {
	if err := validateRule(&req); err != nil {
		return BenefitResponse{}, err
	}
	a := &Allowance{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
		Amount:      money.Round(req.Amount),
		Percentage:  req.Percentage.Round(2),
		Active:      activeOrDefault(req.Active),
	}
	if err := s.repo.CreateAllowance(ctx, a); err != nil {
		if dberr.IsUniqueViolation(err) {
			return BenefitResponse{}, benefiterrors.ErrDuplicateName
		}
		return BenefitResponse{}, err
	}
	s.logger.Info("allowance created", zap.String("id", a.ID.String()), zap.String("name", a.Name))
	return mapAllowance(*a), nil
}

func (s *service) ListDeductions(ctx context.Context) ([]BenefitResponse, error) {
	rows, err := s.repo.ListDeductions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BenefitResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, mapDeduction(d))
	}
	return out, nil
}

func (s *service) ListAllowances(ctx context.Context) ([]BenefitResponse, error) {
	rows, err := s.repo.ListAllowances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BenefitResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, mapAllowance(a))
	}
	return out, nil
}

func (s *service) ensureEmployee(ctx context.Context, id int64) error {
	if _, err := s.employees.FindByID(ctx, id); err != nil {
		if dberr.IsNotFound(err) {
			return benefiterrors.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

func (s *service) AssignDeduction(ctx context.Context, deductionID string, req AssignRequest) (AssignmentResponse, error) {
	id, err := uuid.Parse(deductionID)
	if err != nil {
		return AssignmentResponse{}, benefiterrors.ErrInvalidBenefitID
	}
	if _, err := s.repo.FindDeduction(ctx, id); err != nil {
		if dberr.IsNotFound(err) {
			return AssignmentResponse{}, benefiterrors.ErrDeductionNotFound
		}
		return AssignmentResponse{}, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return AssignmentResponse{}, err
	}

	link := &EmployeeDeduction{ID: uuid.New(), EmployeeID: req.EmployeeID, DeductionID: id, Active: activeOrDefault(req.Active)}
	if err := s.repo.AssignDeduction(ctx, link); err != nil {
		return AssignmentResponse{}, err
	}
	return AssignmentResponse{BenefitID: id.String(), EmployeeID: req.EmployeeID, Active: link.Active}, nil
}

func (s *service) AssignAllowance(ctx context.Context, allowanceID string, req AssignRequest) (AssignmentResponse, error) {
	id, err := uuid.Parse(allowanceID)
	if err != nil {
		return AssignmentResponse{}, benefiterrors.ErrInvalidBenefitID
	}
	if _, err := s.repo.FindAllowance(ctx, id); err != nil {
		if dberr.IsNotFound(err) {
			return AssignmentResponse{}, benefiterrors.ErrAllowanceNotFound
		}
		return AssignmentResponse{}, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return AssignmentResponse{}, err
	}

	link := &EmployeeAllowance{ID: uuid.New(), EmployeeID: req.EmployeeID, AllowanceID: id, Active: activeOrDefault(req.Active)}
	if err := s.repo.AssignAllowance(ctx, link); err != nil {
		return AssignmentResponse{}, err
	}
	return AssignmentResponse{BenefitID: id.String(), EmployeeID: req.EmployeeID, Active: link.Active}, nil
}
