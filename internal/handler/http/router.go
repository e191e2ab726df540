package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(
	JWTService jwt.Service,
	opts RouterOptions,
	employeeHandler EmployeeHandler,
	placementHandler PlacementHandler,
	masterHandler MasterHandler,
	payrollHandler PayrollHandler,
	ledgerHandler LedgerHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", employeeHandler.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/", employeeHandler.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id"))
					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", employeeHandler.GetEmployee)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
						r.Patch("/", employeeHandler.UpdateEmployee)
						r.Delete("/", employeeHandler.DeleteEmployee)
						r.Post("/login", employeeHandler.ProvisionLogin)
					})

					r.Route("/placements", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionPlacementView)).Get("/", placementHandler.ListPlacements)
						r.With(middleware.RequirePermission(user.PermissionPlacementView)).Get("/current", placementHandler.CurrentPlacement)
						r.With(middleware.RequirePermission(user.PermissionPlacementManage)).Post("/", placementHandler.AddPlacement)
					})
				})
			})

			r.Route("/job-titles", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPlacementView))
				r.Get("/", masterHandler.ListJobTitles)
				r.With(middleware.UUIDParam("id")).Get("/{id}", masterHandler.GetJobTitle)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/stats", payrollHandler.GetStats)

				r.Route("/summaries", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollSummary))
					r.Get("/", payrollHandler.ListPeriodSummaries)
					r.With(middleware.UUIDParam("id")).Get("/{id}", payrollHandler.GetPeriodSummary)
				})

				r.Route("/periods", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.ListPeriods)
					r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/", payrollHandler.GeneratePeriod)

					r.Route("/{id}", func(r chi.Router) {
						r.Use(middleware.UUIDParam("id"))
						r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.GetPeriod)

						r.Route("/tax", func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionPayrollTax))
							r.Post("/progressive", payrollHandler.CalculateProgressiveTaxForPeriod)
							r.Post("/ter", payrollHandler.CalculateTERTaxForPeriod)
							r.Post("/reconcile", payrollHandler.ReconcileAnnualTax)
						})

						r.With(middleware.RequirePermission(user.PermissionPayrollSubmit)).Post("/submit", payrollHandler.Submit)
						r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).Post("/approve", payrollHandler.Approve)
						r.With(middleware.RequirePermission(user.PermissionPayrollReject)).Post("/reject", payrollHandler.Reject)
						r.With(middleware.RequirePermission(user.PermissionPayrollPay)).Post("/pay", payrollHandler.MarkPaid)
					})
				})

				r.Route("/details/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id"))
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.GetDetail)
					r.With(middleware.RequirePermission(user.PermissionPayrollEdit)).Patch("/", payrollHandler.UpdateDetail)

					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/components", payrollHandler.ListComponents)
					r.With(middleware.RequirePermission(user.PermissionPayrollEdit)).Post("/components", payrollHandler.AddComponent)

					r.With(middleware.RequirePermission(user.PermissionPayrollTax)).Post("/tax/progressive", payrollHandler.CalculateProgressiveTax)
					r.With(middleware.RequirePermission(user.PermissionPayrollTax)).Post("/tax/ter", payrollHandler.CalculateTERTax)

					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/payment-proof", payrollHandler.DownloadPaymentProof)
					r.With(middleware.RequirePermission(user.PermissionPaymentProof)).Post("/payment-proof", payrollHandler.UploadPaymentProof)
				})

				r.Route("/components/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id"))
					r.Use(middleware.RequirePermission(user.PermissionPayrollEdit))
					r.Patch("/", payrollHandler.UpdateComponent)
					r.Delete("/", payrollHandler.DeleteComponent)
				})
			})

			r.Route("/journals", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionJournalView))
				r.Get("/", ledgerHandler.ListJournals)
				r.With(middleware.UUIDParam("id")).Get("/{id}", ledgerHandler.GetJournal)
			})

			r.Route("/me/payslips", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayslipViewOwn))
				r.Get("/", payrollHandler.ListMyPayslips)
				r.Route("/{periodID}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("periodID"))
					r.Get("/", payrollHandler.GetMyPayslip)
					r.Get("/pdf", payrollHandler.DownloadMyPayslip)
				})
			})
		})
	})
	return r
}
