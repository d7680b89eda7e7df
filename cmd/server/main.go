package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitchen_display/internal/config"
	"kitchen_display/internal/database"
	"kitchen_display/internal/handlers"
	"kitchen_display/internal/kitchen"
	"kitchen_display/internal/metrics"
	"kitchen_display/internal/middleware"
	"kitchen_display/internal/migrations"
	"kitchen_display/internal/models"
	"kitchen_display/internal/redis"
	"kitchen_display/internal/repository"
	"kitchen_display/internal/services"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg.Environment, true)

	// Initialize database
	dbLogLevel := logger.Info
	if cfg.IsProduction() {
		dbLogLevel = logger.Warn
		gin.SetMode(gin.ReleaseMode)
	}
	db, err := database.Initialize(cfg.DatabaseURL, dbLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", gecho.Field("error", err))
	}

	if cfg.RunMigrations {
		if err := migrations.RunMigrations(db, log); err != nil {
			log.Fatal("Failed to migrate database", gecho.Field("error", err))
		}
	}
	if cfg.SeedDemoData {
		if err := migrations.SeedDemoData(context.Background(), db, cfg.DefaultTimezone, log); err != nil {
			log.Warn("Failed to create demo data", gecho.Field("error", err))
		}
	}

	// Kitchen rules
	policy, err := kitchen.PolicyByName(cfg.TransitionPolicy)
	if err != nil {
		log.Fatal("Invalid TRANSITION_POLICY", gecho.Field("error", err))
	}
	writer, err := services.StatusWriterByName(cfg.ConcurrencyMode)
	if err != nil {
		log.Fatal("Invalid CONCURRENCY_MODE", gecho.Field("error", err))
	}
	defaultLocation := kitchen.LoadLocation(cfg.DefaultTimezone, time.Local)

	m := metrics.New()
	health := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}

	opts := services.KitchenOptions{
		Policy:          policy,
		Writer:          writer,
		Clock:           kitchen.SystemClock,
		DefaultLocation: defaultLocation,
		Metrics:         m,
	}

	// Initialize Redis (optional)
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL, cfg.KitchenViewCacheTTL)
		if err != nil {
			log.Warn("Redis unavailable, kitchen view cache disabled", gecho.Field("error", err))
		} else {
			defer redisClient.Close()
			opts.Cache = redisClient
			health["redis"] = redisClient
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	itemRepo := repository.NewOrderItemRepository(db)
	branchRepo := repository.NewBranchRepository(db)

	// Initialize services
	completer := services.NewOrderCompleter(orderRepo, itemRepo, cfg.SettlePaymentOnCompletion)
	kitchenService := services.NewKitchenService(db, orderRepo, itemRepo, branchRepo, completer, opts, log)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log)

	// Initialize handlers
	kitchenHandler := handlers.NewKitchenHandler(kitchenService, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	healthHandler := handlers.NewHealthHandler(health)

	// Setup routes
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSAllowOrigins))
	router.Use(middleware.Logger(config.NewLogger(cfg.Environment, false)))
	router.Use(m.Middleware())

	router.GET("/healthz", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		kitchenAPI := api.Group("", middleware.Auth(authService, string(models.Manager), string(models.SuperAdmin)))
		kitchenAPI.GET("/branches/:branch_id/kitchen", kitchenHandler.GetKitchenView)
		kitchenAPI.PATCH("/kitchen/items/:item_id/status", kitchenHandler.AdvanceItemStatus)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting",
			gecho.Field("port", cfg.ServerPort),
			gecho.Field("transition_policy", policy.Name()),
			gecho.Field("concurrency_mode", writer.Name()),
			gecho.Field("cache", opts.Cache != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", gecho.Field("error", err))
		os.Exit(1)
	}
}
