package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/islandhr/payroll-backend-go/internal/pkg/jwt"
)

type RouterDeps struct {
	JWTService   jwt.Service
	AuditService audit.AuditService

	Auth         AuthHandler
	Company      CompanyHandler
	Employee     EmployeeHandler
	Transaction  TransactionHandler
	Payroll      PayrollHandler
	Processing   ProcessingHandler
	BankTransfer BankTransferHandler
	Advance      AdvanceHandler
	Redundancy   RedundancyHandler
	Audit        AuditHandler

	Env string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "islandhr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.RefreshToken)
			r.Post("/logout", deps.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuditTrail(deps.AuditService))

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/auth/register", deps.Auth.Register)
				r.Get("/audit-logs", deps.Audit.List)
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", deps.Company.List)
				r.Get("/{id}", deps.Company.GetByID)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", deps.Company.Create)
					r.Put("/{id}", deps.Company.Update)
					r.Delete("/{id}", deps.Company.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", deps.Employee.List)
				r.Get("/{id}", deps.Employee.GetByID)
				r.Get("/code/{code}", deps.Employee.GetByCode)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.Employee.Create)
					r.Put("/{id}", deps.Employee.Update)
					r.Post("/{id}/terminate", deps.Employee.Terminate)
					r.Delete("/{id}", deps.Employee.Delete)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", deps.Transaction.List)
				r.Get("/register", deps.Transaction.Register)
				r.Get("/{id}", deps.Transaction.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.Transaction.Create)
					r.Post("/bulk", deps.Transaction.BulkCreate)
					r.Post("/post", deps.Transaction.Post)
					r.Put("/{id}", deps.Transaction.Update)
					r.Delete("/{id}", deps.Transaction.Delete)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", deps.Payroll.List)
				r.Get("/{id}", deps.Payroll.GetByID)
				r.Get("/{id}/payslip", deps.Payroll.Payslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.Payroll.Create)
					r.Post("/generate", deps.Payroll.Generate)
					r.Post("/finalize", deps.Payroll.Finalize)
					r.Post("/send-payslips", deps.Payroll.SendPayslips)
					r.Put("/{id}", deps.Payroll.Update)
					r.Delete("/{id}", deps.Payroll.Delete)
				})
			})

			r.Route("/processing-logs", func(r chi.Router) {
				r.Get("/", deps.Processing.List)
				r.Get("/status", deps.Processing.Status)
				r.Get("/stats", deps.Processing.Stats)
				r.Get("/stream", deps.Processing.Stream)
				r.Get("/{id}", deps.Processing.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/cleanup", deps.Processing.Cleanup)
				})
			})

			r.Route("/bank-transfers", func(r chi.Router) {
				r.Get("/", deps.BankTransfer.List)
				r.Get("/{id}", deps.BankTransfer.GetByID)
				r.Get("/export/{batchID}", deps.BankTransfer.Export)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.BankTransfer.CreateBatch)
					r.Post("/process", deps.BankTransfer.Process)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", deps.Advance.List)
				r.Get("/{id}", deps.Advance.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.Advance.Create)
					r.Post("/{id}/approve", deps.Advance.Approve)
					r.Post("/{id}/reject", deps.Advance.Reject)
				})
			})

			r.Route("/redundancies", func(r chi.Router) {
				r.Get("/", deps.Redundancy.List)
				r.Get("/{id}", deps.Redundancy.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.PayrollAccess)
					r.Post("/", deps.Redundancy.Create)
					r.Post("/{id}/approve", deps.Redundancy.Approve)
					r.Post("/{id}/pay", deps.Redundancy.MarkPaid)
				})
			})
		})
	})
	return r
}
