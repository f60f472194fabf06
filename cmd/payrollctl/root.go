package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go-payroll/internal/app"
	"go-payroll/internal/config"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var operator string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Payroll batch operations",
		Long:          `Imports biometric attendance exports and runs payroll periods from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&operator, "operator", "payrollctl", "user id recorded as the actor")

	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newProcessCmd(),
		newCloseCmd(),
		newTokenCmd(),
	)
	return root
}

// env is what a database command needs; close releases it.
type env struct {
	cfg     *config.Config
	infra   *app.Infra
	modules *app.Modules
	logger  *zap.Logger
}

func (e *env) close() {
	e.infra.Close()
	_ = e.logger.Sync()
}

func (e *env) actor() contextutil.Actor {
	return contextutil.Actor{UserID: operator, Role: "admin"}
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	apperror.Init()

	infra, err := app.Connect(cfg, false)
	if err != nil {
		return nil, err
	}
	modules, err := app.NewModules(ctx, cfg, infra.DB, infra.GormDB, nil, nil, log)
	if err != nil {
		infra.Close()
		return nil, err
	}
	return &env{cfg: cfg, infra: infra, modules: modules, logger: log}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
