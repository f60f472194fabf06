package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordAttendanceRequest struct {
	EmployeeID    int64           `json:"employee_id" binding:"required,gt=0"`
	Date          string          `json:"date" binding:"required"`
	ClockIn       *string         `json:"clock_in"`
	ClockOut      *string         `json:"clock_out"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	HolidayHours  decimal.Decimal `json:"holiday_hours"`
	NightHours    decimal.Decimal `json:"night_hours"`
}

type ListAttendanceQuery struct {
	EmployeeID int64  `form:"employee_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type SummaryQuery struct {
	EmployeeID int64  `form:"employee_id"`
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     int64   `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	WorkingHours   string  `json:"working_hours"`
	OvertimeHours  string  `json:"overtime_hours"`
	HolidayHours   string  `json:"holiday_hours"`
	NightHours     string  `json:"night_hours"`
	Source         string  `json:"source"`
	Remarks        string  `json:"remarks,omitempty"`
	UpdatedAt      string  `json:"updated_at"`
}

type SummaryResponse struct {
	EmployeeID   int64  `json:"employee_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Present      int    `json:"present"`
	Late         int    `json:"late"`
	Absent       int    `json:"absent"`
	TotalDays    int    `json:"total_days"`
	WorkingHours string `json:"working_hours"`
}

func mapToResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:             r.ID.String(),
		EmployeeID:     r.EmployeeID,
		AttendanceDate: r.AttendanceDate.Format(DateLayout),
		ClockIn:        r.ClockIn,
		ClockOut:       r.ClockOut,
		Status:         r.Status,
		WorkingHours:   r.WorkingHours.StringFixed(2),
		OvertimeHours:  r.OvertimeHours.StringFixed(2),
		HolidayHours:   r.HolidayHours.StringFixed(2),
		NightHours:     r.NightHours.StringFixed(2),
		Source:         r.Source,
		Remarks:        r.Remarks,
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}
