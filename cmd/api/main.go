package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/config"
	appHTTP "github.com/islandhr/payroll-backend-go/internal/handler/http"
	"github.com/islandhr/payroll-backend-go/internal/pkg/cron"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/email"
	"github.com/islandhr/payroll-backend-go/internal/pkg/jwt"
	"github.com/islandhr/payroll-backend-go/internal/pkg/payslip"
	"github.com/islandhr/payroll-backend-go/internal/pkg/sse"
	"github.com/islandhr/payroll-backend-go/internal/pkg/storage"
	"github.com/islandhr/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/islandhr/payroll-backend-go/internal/service/advance"
	auditService "github.com/islandhr/payroll-backend-go/internal/service/audit"
	authService "github.com/islandhr/payroll-backend-go/internal/service/auth"
	bankTransferService "github.com/islandhr/payroll-backend-go/internal/service/banktransfer"
	companyService "github.com/islandhr/payroll-backend-go/internal/service/company"
	employeeService "github.com/islandhr/payroll-backend-go/internal/service/employee"
	payrollService "github.com/islandhr/payroll-backend-go/internal/service/payroll"
	processingService "github.com/islandhr/payroll-backend-go/internal/service/processing"
	redundancyService "github.com/islandhr/payroll-backend-go/internal/service/redundancy"
	transactionService "github.com/islandhr/payroll-backend-go/internal/service/transaction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "islandhr-payroll"),
	)
	slog.SetDefault(logger)

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn, cfg.App.MigrationsPath); err != nil {
		log.Fatal("Error applying migrations: ", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	transactionRepo := postgresql.NewTransactionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	processingRepo := postgresql.NewProcessingLogRepository(db)
	bankTransferRepo := postgresql.NewBankTransferRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	redundancyRepo := postgresql.NewRedundancyRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Error initializing email service: ", err)
	}
	payslipRenderer := payslip.NewRenderer()
	payslipArchive, err := storage.NewLocalArchive(cfg.Storage.PayslipDir)
	if err != nil {
		log.Fatal("Error initializing payslip archive: ", err)
	}
	progressHub := sse.NewHub()

	auditSvc := auditService.NewAuditService(db, auditRepo, logger)
	authSvc := authService.NewAuthService(db, userRepo, jwtRepo, jwtService, emailService, logger)
	companySvc := companyService.NewCompanyService(db, companyRepo)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, companyRepo)
	transactionSvc := transactionService.NewTransactionService(db, transactionRepo, employeeRepo, processingRepo, logger)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		companyRepo,
		transactionRepo,
		advanceRepo,
		processingRepo,
		payslipRenderer,
		emailService,
		payslipArchive,
		progressHub,
		logger,
	)
	processingSvc := processingService.NewProcessingService(db, processingRepo, companyRepo)
	bankTransferSvc := bankTransferService.NewBankTransferService(db, bankTransferRepo, payrollRepo, processingRepo, logger)
	advanceSvc := advanceService.NewAdvanceService(db, advanceRepo, employeeRepo)
	redundancySvc := redundancyService.NewRedundancyService(db, redundancyRepo, employeeRepo)

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(processingSvc, processingRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:   jwtService,
		AuditService: auditSvc,
		Auth:         appHTTP.NewAuthHandler(jwtService, authSvc, auditSvc),
		Company:      appHTTP.NewCompanyHandler(companySvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Transaction:  appHTTP.NewTransactionHandler(transactionSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Processing:   appHTTP.NewProcessingHandler(processingSvc, progressHub),
		BankTransfer: appHTTP.NewBankTransferHandler(bankTransferSvc),
		Advance:      appHTTP.NewAdvanceHandler(advanceSvc),
		Redundancy:   appHTTP.NewRedundancyHandler(redundancySvc),
		Audit:        appHTTP.NewAuditHandler(auditSvc),
		Env:          cfg.App.Env,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.String("error", err.Error()))
	}
}
