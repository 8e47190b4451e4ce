package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/handlers"
	mW "github.com/sinthiyatelecom/backoffice/internal/middleware"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

type application struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	redis *redis.Client

	auth        *services.AuthService
	customers   *handlers.CustomerHandler
	loans       *handlers.LoanHandler
	accounts    *handlers.AccountHandler
	stock       *handlers.StockHandler
	bookkeeping *handlers.BookkeepingHandler
	memos       *handlers.MemoHandler
	dashboard   *handlers.DashboardHandler
	public      *handlers.PublicHandler
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		services.SendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Gadget images and the storefront logo
	r.Handle("/static/*", http.StripPrefix("/static", mW.StaticFileServer(app.cfg.Static.Dir)))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", app.auth.Login)
		r.Post("/auth/logout", app.auth.Logout)
		r.Get("/public/catalog", app.public.Catalog)
		r.Post("/public/chat", app.public.Chat)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(mW.Auth(app.cfg.JWT.SecretKey, app.redis, app.log))

			r.Route("/customers", app.customers.Routes)
			r.Route("/loans", app.loans.Routes)
			r.Route("/accounts", app.accounts.Routes)
			r.Route("/stock", app.stock.Routes)
			r.Route("/incomes", app.bookkeeping.IncomeRoutes)
			r.Route("/expenses", app.bookkeeping.ExpenseRoutes)
			r.Route("/rent", app.bookkeeping.RentRoutes)
			r.Route("/memos", app.memos.Routes)
			r.Route("/dashboard", app.dashboard.DashboardRoutes)
			r.Route("/reports", app.dashboard.ReportRoutes)
			r.Get("/activities", app.dashboard.Activities)
		})
	})

	return r
}
