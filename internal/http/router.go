package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/ai"
	"github.com/MrJamesThe3rd/spendwise/internal/http/analytics"
	authHandler "github.com/MrJamesThe3rd/spendwise/internal/http/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/http/export"
	"github.com/MrJamesThe3rd/spendwise/internal/http/importcsv"
	"github.com/MrJamesThe3rd/spendwise/internal/http/matching"
	appMiddleware "github.com/MrJamesThe3rd/spendwise/internal/http/middleware"
	"github.com/MrJamesThe3rd/spendwise/internal/http/profile"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
)

type Handlers struct {
	Auth         *authHandler.Handler
	Profile      *profile.Handler
	Budget       *budget.Handler
	Transactions *transaction.Handler
	Analytics    *analytics.Handler
	Matching     *matching.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
	AI           *ai.Handler
}

type Options struct {
	Tokens      *auth.Tokens
	CORSOrigins []string
	AILimiter   *appMiddleware.RateLimiter
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		render.Message(w, http.StatusOK, "ok")
	})

	authenticate := appMiddleware.Authenticate(opts.Tokens)

	authRoutes := func(r chi.Router) {
		h.Auth.PublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			h.Auth.Routes(r)
			r.Route("/profile", h.Profile.Routes)
		})
	}

	// Older clients call the auth endpoints without the /api prefix.
	router.Route("/auth", authRoutes)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", authRoutes)

		r.Route("/ai", func(r chi.Router) {
			if opts.AILimiter != nil {
				r.Use(opts.AILimiter.Handler)
			}

			h.AI.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/profile", h.Profile.Routes)
			r.Route("/budget", h.Budget.Routes)
			r.Route("/expenses", h.Budget.ExpenseRoutes)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/analytics", h.Analytics.Routes)
			r.Route("/matching", h.Matching.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/export", h.Export.Routes)
		})
	})

	return router
}
