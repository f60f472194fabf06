package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-payroll/internal/attendance"
	"go-payroll/internal/attendanceimport"
	"go-payroll/internal/benefit"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payslip"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/statutory"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Modules is the service graph shared by the api, the consumer and the
// command line tool.
type Modules struct {
	Employees  employee.Service
	Attendance attendance.Service
	Imports    attendanceimport.Service
	Benefits   benefit.Service
	Payroll    payroll.Service
	Payslips   payslip.Service
	RBAC       rbac.Service

	SummaryCache payroll.SummaryCache
}

// NewModules wires every service. rdb may be nil for processes that do not
// preview imports or cache summaries; outbox may be nil when no worker
// publishes events.
func NewModules(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) (*Modules, error) {
	// --- Repositories ---
	registry := employee.NewRegistry(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	benefitRepo := benefit.NewRepository(gormDB)
	bracketRepo := statutory.NewBracketRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	rbacRepo := rbac.NewRepository(gormDB)

	// --- Calculation inputs ---
	shift, err := attendance.NewShift(cfg.Attendance)
	if err != nil {
		return nil, err
	}
	calculator, err := statutory.NewCalculator(cfg.Statutory)
	if err != nil {
		return nil, err
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("build rbac enforcer: %w", err)
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load rbac policy: %w", err)
	}

	m := &Modules{RBAC: rbacService}

	var previews attendanceimport.PreviewStore
	if rdb != nil {
		previews = attendanceimport.NewRedisPreviewStore(rdb)
		m.SummaryCache = payroll.NewRedisSummaryCache(rdb, cfg.Payroll.SummaryCacheTTL)
	}

	// --- Services ---
	processor := payroll.NewProcessor(db, payrollRepo, payroll.Dependencies{
		Attendance: attendanceRepo,
		Benefits:   benefitRepo,
		Employees:  registry,
		Brackets:   bracketRepo,
		Calculator: calculator,
		Outbox:     outbox,
		Cache:      m.SummaryCache,
	}, payroll.RatesFromConfig(cfg.Payroll), logger)

	m.Employees = employee.NewService(registry, cfg.Payroll.HoursPerDay, cfg.Payroll.DaysPerMonth, logger)
	m.Attendance = attendance.NewService(db, attendanceRepo, registry, shift, logger)
	m.Imports = attendanceimport.NewService(attendanceRepo, registry, previews, shift, attendanceimport.Options{
		BannerMarkers: cfg.Import.BannerMarkers,
		PreviewTTL:    cfg.Import.PreviewTTL,
		MaxRows:       cfg.Import.MaxRows,
	}, logger)
	m.Benefits = benefit.NewService(benefitRepo, registry, logger)
	m.Payroll = payroll.NewService(db, payrollRepo, processor, logger)
	m.Payslips = payslip.NewService(db, payslipRepo, payrollRepo, counterRepo, logger)

	return m, nil
}

// registerRoutes mounts every feature under /api/v1.
func registerRoutes(router *gin.Engine, cfg *config.Config, m *Modules, rdb *redis.Client, logger *zap.Logger) {
	auth := middleware.AuthMiddleware(cfg.JWT.Secret)
	idempotency := middleware.Idempotency(rdb, cfg.HTTP.IdempotencyTTL)
	importLimit := middleware.RateLimitByUser(rate.Limit(cfg.HTTP.ImportRateLimit), cfg.HTTP.ImportBurst)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(m.Employees, logger)
	attendanceHandler := attendance.NewHandler(m.Attendance, logger)
	importHandler := attendanceimport.NewHandler(m.Imports, cfg.HTTP.MaxUploadBytes, logger)
	benefitHandler := benefit.NewHandler(m.Benefits, logger)
	payrollHandler := payroll.NewHandler(m.Payroll, logger)
	payslipHandler := payslip.NewHandler(m.Payslips, logger)
	rbacHandler := rbac.NewHandler(m.RBAC, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	{
		employee.RegisterRoutes(api, employeeHandler, m.RBAC, auth)
		attendance.RegisterRoutes(api, attendanceHandler, m.RBAC, auth)
		attendanceimport.RegisterRoutes(api, importHandler, m.RBAC, auth, importLimit, idempotency)
		benefit.RegisterRoutes(api, benefitHandler, m.RBAC, auth)
		payroll.RegisterRoutes(api, payrollHandler, m.RBAC, auth, idempotency)
		payslip.RegisterRoutes(api, payslipHandler, m.RBAC, auth)
		rbac.RegisterRoutes(api, rbacHandler, m.RBAC, auth)
	}
}
