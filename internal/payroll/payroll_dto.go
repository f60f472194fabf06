package payroll

import (
	"time"

	"go-payroll/internal/attendance"

	"github.com/shopspring/decimal"
)

type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,max=120"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	PayDate   string `json:"pay_date" binding:"required"`
}

type ListPeriodsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=OPEN PROCESSING CLOSED"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ProcessRequest struct {
	EmployeeID *int64 `json:"employee_id" binding:"omitempty,gt=0"`
}

type ListPayrollQuery struct {
	PeriodID   string `form:"period_id"`
	EmployeeID int64  `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT PROCESSED ABSENT PAID"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type SummaryQuery struct {
	Group string `form:"group"`
}

type PeriodResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PayDate   string  `json:"pay_date"`
	Status    string  `json:"status"`
	ClosedAt  *string `json:"closed_at,omitempty"`
}

type PayrollResponse struct {
	ID                string  `json:"id"`
	EmployeeID        int64   `json:"employee_id"`
	PeriodID          string  `json:"period_id"`
	PeriodStart       string  `json:"period_start"`
	PeriodEnd         string  `json:"period_end"`
	WorkingHours      string  `json:"working_hours"`
	HourlyRate        string  `json:"hourly_rate"`
	BasicSalary       string  `json:"basic_salary"`
	OvertimeHours     string  `json:"overtime_hours"`
	OvertimePay       string  `json:"overtime_pay"`
	HolidayHours      string  `json:"holiday_hours"`
	HolidayPay        string  `json:"holiday_pay"`
	NightHours        string  `json:"night_hours"`
	NightDifferential string  `json:"night_differential"`
	Allowances        string  `json:"allowances"`
	GrossPay          string  `json:"gross_pay"`
	SocialInsurance   string  `json:"social_insurance"`
	HealthInsurance   string  `json:"health_insurance"`
	HousingFund       string  `json:"housing_fund"`
	TaxableIncome     string  `json:"taxable_income"`
	TaxWithheld       string  `json:"tax_withheld"`
	OtherDeductions   string  `json:"other_deductions"`
	TotalDeductions   string  `json:"total_deductions"`
	NetPay            string  `json:"net_pay"`
	Status            string  `json:"status"`
	Locked            bool    `json:"locked"`
	PaidAt            *string `json:"paid_at,omitempty"`
}

type ComponentResponse struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type BreakdownResponse struct {
	Payroll    PayrollResponse     `json:"payroll"`
	Allowances []ComponentResponse `json:"allowances"`
	Deductions []ComponentResponse `json:"deductions"`
	Statutory  []ComponentResponse `json:"statutory"`
}

type TotalsResponse struct {
	Employees       int    `json:"employees"`
	Processed       int    `json:"processed"`
	Absent          int    `json:"absent"`
	Paid            int    `json:"paid"`
	GrossPay        string `json:"gross_pay"`
	Allowances      string `json:"allowances"`
	SocialInsurance string `json:"social_insurance"`
	HealthInsurance string `json:"health_insurance"`
	HousingFund     string `json:"housing_fund"`
	TaxWithheld     string `json:"tax_withheld"`
	OtherDeductions string `json:"other_deductions"`
	TotalDeductions string `json:"total_deductions"`
	NetPay          string `json:"net_pay"`
}

type DepartmentSummaryResponse struct {
	DepartmentID *int64 `json:"department_id"`
	Department   string `json:"department"`
	TotalsResponse
}

type SummaryResponse struct {
	PeriodID    string                      `json:"period_id"`
	PeriodName  string                      `json:"period_name"`
	StartDate   string                      `json:"start_date"`
	EndDate     string                      `json:"end_date"`
	Totals      TotalsResponse              `json:"totals"`
	Departments []DepartmentSummaryResponse `json:"departments,omitempty"`
}

func formatDate(t time.Time) string {
	return t.Format(attendance.DateLayout)
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func mapPeriod(p Period) PeriodResponse {
	resp := PeriodResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		StartDate: formatDate(p.StartDate),
		EndDate:   formatDate(p.EndDate),
		PayDate:   formatDate(p.PayDate),
		Status:    p.Status,
	}
	if p.ClosedAt != nil {
		v := p.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}

func mapToResponse(r Record) PayrollResponse {
	resp := PayrollResponse{
		ID:                r.ID.String(),
		EmployeeID:        r.EmployeeID,
		PeriodID:          r.PeriodID.String(),
		PeriodStart:       formatDate(r.PeriodStart),
		PeriodEnd:         formatDate(r.PeriodEnd),
		WorkingHours:      fixed(r.WorkingHours),
		HourlyRate:        r.HourlyRate.StringFixed(4),
		BasicSalary:       fixed(r.BasicSalary),
		OvertimeHours:     fixed(r.OvertimeHours),
		OvertimePay:       fixed(r.OvertimePay),
		HolidayHours:      fixed(r.HolidayHours),
		HolidayPay:        fixed(r.HolidayPay),
		NightHours:        fixed(r.NightHours),
		NightDifferential: fixed(r.NightDifferential),
		Allowances:        fixed(r.Allowances),
		GrossPay:          fixed(r.GrossPay),
		SocialInsurance:   fixed(r.SocialInsurance),
		HealthInsurance:   fixed(r.HealthInsurance),
		HousingFund:       fixed(r.HousingFund),
		TaxableIncome:     fixed(r.TaxableIncome),
		TaxWithheld:       fixed(r.TaxWithheld),
		OtherDeductions:   fixed(r.OtherDeductions),
		TotalDeductions:   fixed(r.TotalDeductions),
		NetPay:            fixed(r.NetPay),
		Status:            r.Status,
		Locked:            r.Locked(),
	}
	if r.PaidAt != nil {
		v := r.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapComponent(c Component) ComponentResponse {
	return ComponentResponse{Type: c.ComponentType, Name: c.ComponentName, Amount: fixed(c.Amount)}
}
