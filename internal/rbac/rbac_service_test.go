package rbac_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeRepo struct {
	perms []rbac.RolePermission
	err   error
}

func (f *fakeRepo) ListRolePermissions(ctx context.Context) ([]rbac.RolePermission, error) {
	return f.perms, f.err
}

func (f *fakeRepo) EnsurePermissions(ctx context.Context, perms []rbac.RolePermission) error {
	f.perms = append(f.perms, perms...)
	return f.err
}

func newLoadedService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)

	svc := rbac.NewService(&fakeRepo{perms: rbac.DefaultPermissions()}, enforcer)
	require.NoError(t, svc.Reload(context.Background()))
	return svc
}

func TestEnforce_RoleHierarchy(t *testing.T) {
	svc := newLoadedService(t)

	cases := []struct {
		role, resource, action string
		allowed                bool
	}{
		{domain.RoleEmployee, domain.ResourcePayslip, domain.ActionRead, true},
		{domain.RoleEmployee, domain.ResourcePayrollPeriod, domain.ActionProcess, false},
		{domain.RoleDeptHead, domain.ResourcePayslip, domain.ActionRead, true},
		{domain.RoleDeptHead, domain.ResourcePayrollSummary, domain.ActionRead, true},
		{domain.RoleDeptHead, domain.ResourceAttendanceImport, domain.ActionWrite, false},
		{domain.RoleOfficer, domain.ResourcePayrollPeriod, domain.ActionProcess, true},
		{domain.RoleOfficer, domain.ResourcePayrollPeriod, domain.ActionClose, false},
		{domain.RoleOfficer, domain.ResourcePayslip, domain.ActionApprove, false},
		{domain.RoleAdmin, domain.ResourcePayrollPeriod, domain.ActionClose, true},
		{domain.RoleAdmin, domain.ResourceAttendance, domain.ActionRead, true},
		{domain.RoleAdmin, domain.ResourceRBAC, domain.ActionManage, true},
		{"auditor", domain.ResourcePayslip, domain.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.resource+"/"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{Role: tc.role, Resource: tc.resource, Action: tc.action})
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestCapabilities(t *testing.T) {
	svc := newLoadedService(t)

	emp, err := svc.Capabilities(domain.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, emp, 3)

	officer, err := svc.Capabilities(domain.RoleOfficer)
	require.NoError(t, err)
	assert.Contains(t, officer, domain.PermissionResponse{Resource: domain.ResourcePayslip, Action: domain.ActionRead})
	assert.Contains(t, officer, domain.PermissionResponse{Resource: domain.ResourcePayslip, Action: domain.ActionGenerate})
	assert.NotContains(t, officer, domain.PermissionResponse{Resource: domain.ResourcePayslip, Action: domain.ActionApprove})

	unknown, err := svc.Capabilities("nobody")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestReload_RepoError(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)

	svc := rbac.NewService(&fakeRepo{err: errors.New("db down")}, enforcer)
	assert.Error(t, svc.Reload(context.Background()))
}

func TestRepository_EnsurePermissionsIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&rbac.RolePermission{}))

	repo := rbac.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.EnsurePermissions(ctx, rbac.DefaultPermissions()))
	require.NoError(t, repo.EnsurePermissions(ctx, rbac.DefaultPermissions()))

	perms, err := repo.ListRolePermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, len(rbac.DefaultPermissions()))
}
