package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order_manager/internal/config"
	"order_manager/internal/database"
	"order_manager/internal/handlers"
	applog "order_manager/internal/logger"
	"order_manager/internal/metrics"
	"order_manager/internal/middleware"
	"order_manager/internal/migrations"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
	"order_manager/internal/services"
	"order_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	log := applog.Get()
	applog.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if cfg.RunMigrations {
		admin := migrations.DefaultAdmin{CustomerID: cfg.AdminCustomerID, Password: cfg.AdminPassword}
		if err := migrations.RunMigrations(ctx, db, admin); err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
	}

	// Without redis the service still runs; caching and ledger locks are skipped.
	var (
		cache  services.Cache
		locker services.Locker
	)
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache and ledger locks")
	} else {
		cache, locker = redisClient, redisClient
		defer redisClient.Close()
	}

	var notifier services.OrderNotifier
	if cfg.WhatsAppAPIURL != "" {
		client := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath, cfg.PhoneRegion)
		notifier = services.NewWhatsAppNotifier(client)
	}

	loc := cfg.Location()
	store := repository.NewStore(db)

	ledgerService := services.NewLedgerService(store, services.LedgerOptions{
		Cache:    cache,
		Locker:   locker,
		LockTTL:  cfg.LedgerLockTTL,
		CacheTTL: cfg.CacheDuration(),
		Location: loc,
	})
	orderService := services.NewOrderService(store, notifier, cache, loc, services.ShiftWindow{
		OpenHour:  cfg.ShiftOpenHour,
		CloseHour: cfg.ShiftCloseHour,
	})
	userService := services.NewUserService(store, cfg.PhoneRegion)
	catalogService := services.NewCatalogService(store)
	assignmentService := services.NewAssignmentService(store)
	reportService := services.NewReportService(store, cache, cfg.CacheDuration(), loc)

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}

	httpMetrics := metrics.NewHTTPMetrics("order-manager")

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		httpMetrics.Middleware(),
	)
	router.GET("/metrics", httpMetrics.Handler())

	handlers.NewHealthHandler(checks).Register(router)
	handlers.NewOrderHandler(orderService).Register(router)
	handlers.NewCatalogHandler(catalogService).Register(router)
	handlers.NewUserHandler(userService).Register(router)
	handlers.NewAssignmentHandler(assignmentService).Register(router)
	handlers.NewReportHandler(reportService).Register(router)

	ledgerRoutes := router.Group("", httpMetrics.LedgerMiddleware())
	handlers.NewCreditHandler(ledgerService).Register(ledgerRoutes)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
}
