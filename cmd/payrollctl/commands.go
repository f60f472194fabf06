package main

import (
	"fmt"
	"os"
	"time"

	"go-payroll/internal/app"
	"go-payroll/internal/attendanceimport"
	"go-payroll/internal/config"
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and seed tax brackets and role grants",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			return app.Migrate(cmd.Context(), e.infra.GormDB, e.logger)
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a biometric attendance export without preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := attendanceimport.ReadRows(f, attendanceimport.IsCSV(args[0]))
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			outcome, err := e.modules.Imports.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), outcome)
		},
	}
}

func newProcessCmd() *cobra.Command {
	var employeeID int64
	cmd := &cobra.Command{
		Use:   "process <period-id>",
		Short: "Compute payroll for a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if employeeID > 0 {
				res, err := e.modules.Payroll.ProcessEmployee(cmd.Context(), args[0], employeeID, e.actor())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}
			res, err := e.modules.Payroll.ProcessPeriod(cmd.Context(), args[0], e.actor())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "process a single employee")
	return cmd
}

func newCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <period-id>",
		Short: "Close a payroll period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			period, err := e.modules.Payroll.ClosePeriod(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), period)
		},
	}
}

// newTokenCmd mints an access token for local use; production tokens come
// from the identity service.
func newTokenCmd() *cobra.Command {
	var (
		role       string
		employeeID int64
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a signed access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.IsKnownRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(cfg.JWT.Secret, cfg.JWT.Issuer, middleware.Claims{
				UserID:     args[0],
				Role:       role,
				EmployeeID: employeeID,
			}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&role, "role", domain.RoleOfficer, "admin, officer, dept_head or employee")
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "employee id bound to the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
