package rbac

import "go-payroll/internal/domain"

// DefaultHierarchy: admin > officer > dept_head > employee.
func DefaultHierarchy() []RoleInheritance {
	return []RoleInheritance{
		{Role: domain.RoleAdmin, Parent: domain.RoleOfficer},
		{Role: domain.RoleOfficer, Parent: domain.RoleDeptHead},
		{Role: domain.RoleDeptHead, Parent: domain.RoleEmployee},
	}
}

// DefaultPermissions lists only what each role adds on top of the roles it inherits.
func DefaultPermissions() []RolePermission {
	grant := func(role, resource, action string) RolePermission {
		return RolePermission{Role: role, Resource: resource, Action: action}
	}

	return []RolePermission{
		// own records only, enforced by the handlers
		grant(domain.RoleEmployee, domain.ResourceAttendance, domain.ActionRead),
		grant(domain.RoleEmployee, domain.ResourcePayroll, domain.ActionRead),
		grant(domain.RoleEmployee, domain.ResourcePayslip, domain.ActionRead),

		grant(domain.RoleDeptHead, domain.ResourceEmployee, domain.ActionRead),
		grant(domain.RoleDeptHead, domain.ResourcePayrollPeriod, domain.ActionRead),
		grant(domain.RoleDeptHead, domain.ResourcePayrollSummary, domain.ActionRead),

		grant(domain.RoleOfficer, domain.ResourceAttendance, domain.ActionWrite),
		grant(domain.RoleOfficer, domain.ResourceAttendanceImport, domain.ActionWrite),
		grant(domain.RoleOfficer, domain.ResourcePayrollPeriod, domain.ActionWrite),
		grant(domain.RoleOfficer, domain.ResourcePayrollPeriod, domain.ActionProcess),
		grant(domain.RoleOfficer, domain.ResourcePayroll, domain.ActionWrite),
		grant(domain.RoleOfficer, domain.ResourcePayslip, domain.ActionGenerate),
		grant(domain.RoleOfficer, domain.ResourcePayslip, domain.ActionDistribute),
		grant(domain.RoleOfficer, domain.ResourceBenefit, domain.ActionRead),

		grant(domain.RoleAdmin, domain.ResourcePayrollPeriod, domain.ActionClose),
		grant(domain.RoleAdmin, domain.ResourcePayslip, domain.ActionApprove),
		grant(domain.RoleAdmin, domain.ResourceBenefit, domain.ActionManage),
		grant(domain.RoleAdmin, domain.ResourceRBAC, "*"),
	}
}
