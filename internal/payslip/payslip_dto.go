package payslip

import (
	"time"

	"go-payroll/internal/attendance"

	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	PayrollID string `json:"payroll_id" binding:"required,uuid"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ListPayslipsQuery struct {
	EmployeeID int64  `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=GENERATED APPROVED REJECTED DISTRIBUTED"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type PayslipResponse struct {
	ID                string  `json:"id"`
	PayslipNumber     string  `json:"payslip_number"`
	EmployeeID        int64   `json:"employee_id"`
	PayrollID         string  `json:"payroll_id"`
	PeriodStart       string  `json:"period_start"`
	PeriodEnd         string  `json:"period_end"`
	WorkingHours      string  `json:"working_hours"`
	HourlyRate        string  `json:"hourly_rate"`
	BasicSalary       string  `json:"basic_salary"`
	OvertimePay       string  `json:"overtime_pay"`
	HolidayPay        string  `json:"holiday_pay"`
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
	RejectionReason   string  `json:"rejection_reason,omitempty"`
	GeneratedAt       string  `json:"generated_at"`
	GeneratedBy       string  `json:"generated_by,omitempty"`
	ApprovedBy        string  `json:"approved_by,omitempty"`
	ApprovedAt        *string `json:"approved_at,omitempty"`
	DistributedAt     *string `json:"distributed_at,omitempty"`
}

type GenerateResult struct {
	Payslip       PayslipResponse `json:"payslip"`
	AlreadyExists bool            `json:"already_exists"`
}

func fixed(d decimal.Decimal) string { return d.StringFixed(2) }

func timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:                p.ID.String(),
		PayslipNumber:     p.PayslipNumber,
		EmployeeID:        p.EmployeeID,
		PayrollID:         p.PayrollID.String(),
		PeriodStart:       p.PeriodStart.Format(attendance.DateLayout),
		PeriodEnd:         p.PeriodEnd.Format(attendance.DateLayout),
		WorkingHours:      fixed(p.WorkingHours),
		HourlyRate:        p.HourlyRate.StringFixed(4),
		BasicSalary:       fixed(p.BasicSalary),
		OvertimePay:       fixed(p.OvertimePay),
		HolidayPay:        fixed(p.HolidayPay),
		NightDifferential: fixed(p.NightDifferential),
		Allowances:        fixed(p.Allowances),
		GrossPay:          fixed(p.GrossPay),
		SocialInsurance:   fixed(p.SocialInsurance),
		HealthInsurance:   fixed(p.HealthInsurance),
		HousingFund:       fixed(p.HousingFund),
		TaxableIncome:     fixed(p.TaxableIncome),
		TaxWithheld:       fixed(p.TaxWithheld),
		OtherDeductions:   fixed(p.OtherDeductions),
		TotalDeductions:   fixed(p.TotalDeductions),
		NetPay:            fixed(p.NetPay),
		Status:            p.Status,
		RejectionReason:   p.RejectionReason,
		GeneratedAt:       p.GeneratedAt.UTC().Format(time.RFC3339),
		GeneratedBy:       p.GeneratedBy,
		ApprovedBy:        p.ApprovedBy,
		ApprovedAt:        timestamp(p.ApprovedAt),
		DistributedAt:     timestamp(p.DistributedAt),
	}
}
