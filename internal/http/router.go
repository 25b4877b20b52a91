package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/envelope/internal/http/account"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/budget"
	"github.com/MrJamesThe3rd/envelope/internal/http/category"
	"github.com/MrJamesThe3rd/envelope/internal/http/events"
	"github.com/MrJamesThe3rd/envelope/internal/http/export"
	"github.com/MrJamesThe3rd/envelope/internal/http/importcsv"
	"github.com/MrJamesThe3rd/envelope/internal/http/matching"
	"github.com/MrJamesThe3rd/envelope/internal/http/transaction"
)

type Handlers struct {
	Accounts     *account.Handler
	Categories   *category.Handler
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Rules        *matching.Handler
	Budget       *budget.Handler
	Events       *events.Handler
	Export       *export.Handler
}

func New(authn *auth.Authenticator, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authn.Middleware)

		r.Route("/accounts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Accounts.Routes(r)
			})

			r.Route("/{accountID}", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Accounts.ItemRoutes(r)
					h.Transactions.Routes(r)
				})

				h.Export.AccountRoutes(r)

				// multipart upload
				r.Route("/import", h.Import.Routes)
			})
		})

		r.Route("/export", h.Export.Routes)

		r.Route("/banks", h.Import.BankRoutes)

		r.Route("/transfers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.TransferRoutes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Rules.Routes(r)
		})

		r.Route("/budget", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Budget.Routes(r)
		})

		r.Route("/events", h.Events.Routes)
	})

	return router
}
