package domain

// Roles ordered from most to least privileged. Each role inherits the
// permissions of the roles below it.
const (
	RoleAdmin    = "admin"
	RoleOfficer  = "officer"
	RoleDeptHead = "dept_head"
	RoleEmployee = "employee"
)

var Roles = []string{RoleAdmin, RoleOfficer, RoleDeptHead, RoleEmployee}

func IsKnownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resources guarded by the capability check.
const (
	ResourceAttendance       = "attendance"
	ResourceAttendanceImport = "attendance_import"
	ResourceEmployee         = "employee"
	ResourcePayrollPeriod    = "payroll_period"
	ResourcePayroll          = "payroll"
	ResourcePayrollSummary   = "payroll_summary"
	ResourcePayslip          = "payslip"
	ResourceBenefit          = "benefit"
	ResourceRBAC             = "rbac"
)

const (
	ActionRead       = "read"
	ActionWrite      = "write"
	ActionProcess    = "process"
	ActionClose      = "close"
	ActionGenerate   = "generate"
	ActionApprove    = "approve"
	ActionDistribute = "distribute"
	ActionManage     = "manage"
)

type EnforceRequest struct {
	Subject  string `json:"subject"`
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type CapabilitiesResponse struct {
	Role        string               `json:"role"`
	Permissions []PermissionResponse `json:"permissions"`
}
