package app

import (
	"database/sql"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-leavedesk/internal/audit"
	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/leavebalance"
	"go-leavedesk/internal/leavetype"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/notification"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/rbac/infra"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	notifier notification.Enqueuer,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB, db)
	leaveRepo := leave.NewRepository(gormDB, db)
	auditRecorder := audit.NewRecorder(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	typeRegistry := leavetype.NewRegistry(leaveTypeRepo)
	ledger := leavebalance.NewLedger(balanceRepo, typeRegistry)
	employeeService := employee.NewService(db, employeeRepo, rdb)
	leaveService := leave.NewService(
		db, leaveRepo, employeeRepo, typeRegistry, ledger,
		auditRecorder, outboxRepo, notifier, rbacService,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveTypeHandler := leavetype.NewHandler(typeRegistry)
	balanceHandler := leavebalance.NewHandler(ledger)
	leaveHandler := leave.NewHandler(leaveService, rdb)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()), middleware.RateLimitByIP(20, 40))
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	}

	rbac.RegisterRoutes(api, rbacHandler, middleware.AuthMiddleware())

	return nil
}
