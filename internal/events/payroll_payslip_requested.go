package events

import "time"

const (
	PayrollPayslipRequestedTopic = "payroll.payslip.requested.v1"
	PayrollPayslipRequestedType  = "payroll.payslip_requested"
)

// PayrollPayslipRequestedEvent asks the consumer to generate the payslip of
// one payroll record.
type PayrollPayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PayrollID   string    `json:"payroll_id"`
	PeriodID    string    `json:"period_id"`
	EmployeeID  int64     `json:"employee_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
