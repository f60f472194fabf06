package employee

type ListEmployeesQuery struct {
	DepartmentID *int64 `form:"department_id"`
	ActiveOnly   bool   `form:"active_only"`
	Q            string `form:"q"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type EmployeeResponse struct {
	ID           int64  `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
	Salary       string `json:"salary"`
	HourlyRate   string `json:"hourly_rate"`
	Active       bool   `json:"active"`
}

func mapToResponse(e Employee, hoursPerDay, daysPerMonth int) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName(),
		DepartmentID: e.DepartmentID,
		Department:   e.DepartmentName(),
		Position:     e.Position,
		Salary:       e.Salary.StringFixed(2),
		HourlyRate:   e.EffectiveHourlyRate(hoursPerDay, daysPerMonth).StringFixed(4),
		Active:       e.Active,
	}
}
