package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/sinthiyatelecom/backoffice/docs"
	"github.com/sinthiyatelecom/backoffice/internal/activity"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sinthiyatelecom/backoffice/internal/database"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/handlers"
	"github.com/sinthiyatelecom/backoffice/internal/ledger"
	"github.com/sinthiyatelecom/backoffice/internal/logging"
	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// @title Sinthiya Telecom Back Office API
// @version 1.0
// @description Customer dues, NGO loans, wallet balances, SIM stock and daily hisab for the shop
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	docs.SwaggerInfo.BasePath = "/api/v1"

	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := database.InitRedis(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var model services.ContentGenerator
	if cfg.Gemini.APIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
		if err != nil {
			log.WithError(err).Warn("Gemini client unavailable, chatbot disabled")
		} else {
			defer client.Close()
			model = client.GenerativeModel(cfg.Gemini.Model)
		}
	} else {
		log.Info("GEMINI_API_KEY not set, chatbot disabled")
	}

	loc := cfg.Shop.Location()
	now := func() time.Time { return time.Now().In(loc) }
	dates := dateutil.New(now)
	activities := activity.NewLogger(db, log, now)
	store := services.NewLedgerStore(db, ledger.NewEngine(dates), log)
	catalog := services.NewCatalog(cfg.Shop)

	app := &application{
		cfg:         cfg,
		log:         log,
		redis:       redisClient,
		auth:        services.NewAuthService(db, redisClient, cfg.JWT, cfg.Argon2, log),
		customers:   handlers.NewCustomerHandler(services.NewCustomerService(db, store, dates, activities, log), cfg.Shop.Name, log),
		loans:       handlers.NewLoanHandler(services.NewLoanService(db, store, dates, activities), log),
		accounts:    handlers.NewAccountHandler(services.NewAccountService(db, dates, activities, log), log),
		stock:       handlers.NewStockHandler(services.NewStockService(db, dates, activities, log), log),
		bookkeeping: handlers.NewBookkeepingHandler(services.NewBookkeepingService(db, dates, activities), log),
		memos:       handlers.NewMemoHandler(services.NewMemoService(db, dates, activities, cfg.Shop.Name), log),
		dashboard: handlers.NewDashboardHandler(
			services.NewDashboardService(db, redisClient, cfg.Cache.DashboardTTL, dates, activities, log),
			services.NewReportService(db),
			activities,
			log,
		),
		public: handlers.NewPublicHandler(catalog, services.NewChatService(model, services.SystemPrompt(catalog), log), log),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}
	log.Info("Server stopped")
}
