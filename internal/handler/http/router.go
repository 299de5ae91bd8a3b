package http

import (
	"log/slog"
	"os"

	"github.com/frotaops/frota-backend-go/internal/handler/http/middleware"
	"github.com/frotaops/frota-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	settlementHandler SettlementHandler,
	debitHandler DebitHandler,
	driverHandler DriverHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "frota-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
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

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/", settlementHandler.Create)
				r.Get("/", settlementHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", settlementHandler.Get)
					r.Post("/recalculate", settlementHandler.Recalculate)
					r.Post("/transition", settlementHandler.Transition)

					r.Route("/daily-records", func(r chi.Router) {
						r.Post("/", settlementHandler.AddDailyRecord)
						r.Get("/", settlementHandler.ListDailyRecords)
						r.Delete("/{recordID}", settlementHandler.DeleteDailyRecord)
					})

					r.Route("/adjustments", func(r chi.Router) {
						r.Post("/", settlementHandler.CreateAdjustment)
						r.Get("/", settlementHandler.ListAdjustments)
						r.Delete("/{adjustmentID}", settlementHandler.DeleteAdjustment)
					})

					r.Route("/expenses", func(r chi.Router) {
						r.Get("/", settlementHandler.ListExpenseValidations)
						r.Put("/{expenseID}/review", settlementHandler.ReviewExpense)
					})
				})
			})

			r.Route("/debits", func(r chi.Router) {
				r.Post("/", debitHandler.Register)
				r.Get("/", debitHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", debitHandler.Get)
					r.Post("/apply-payment", debitHandler.ApplyPayment)
					r.Post("/cancel", debitHandler.Cancel)
				})
			})

			r.Route("/drivers", func(r chi.Router) {
				r.Post("/", driverHandler.Create)
				r.Get("/", driverHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", driverHandler.Get)
					r.Get("/debits", driverHandler.ListActiveDebits)
				})
			})
		})
	})
	return r
}
