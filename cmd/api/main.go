package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"job-management-backend/config"
	_ "job-management-backend/docs" // Important for Swagger
	"job-management-backend/internal/delivery/http/middleware"
	v1 "job-management-backend/internal/delivery/http/v1"
	"job-management-backend/internal/domain"
	"job-management-backend/internal/repository/postgres"
	"job-management-backend/internal/usecase"
	"job-management-backend/pkg/auth"
	"job-management-backend/pkg/database"
	"job-management-backend/pkg/logger"
	"job-management-backend/pkg/redis"
	"job-management-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           Job Management Backend API
// @version         1.0
// @description     Candidate registration and management.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	logger.Log.Info("Starting job management backend", zap.String("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := database.NewBunDB(pool)
	if cfg.DBAutoMigrate {
		if err := postgres.CreateTables(ctx, db); err != nil {
			logger.Log.Fatal("Failed to create tables", zap.Error(err))
		}
	}

	// 4. Optional Redis for rate limiting
	var redisClient *goredis.Client
	redisClient, err = redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("REDIS_URL not configured, rate limiting uses in-memory fallback")
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", zap.Error(err))
	default:
		defer redisClient.Close()
	}

	// 5. Validation and messages
	validate := validation.NewValidator(domain.CandidateRules)
	catalog, err := validation.NewCatalog(validation.DefaultLocale, domain.CandidateRules)
	if err != nil {
		logger.Log.Fatal("Invalid message catalog", zap.Error(err))
	}
	locales, err := validation.NewLocaleMatcher(cfg.DefaultLocale, catalog.Locales())
	if err != nil {
		logger.Log.Fatal("Invalid locale configuration", zap.Error(err))
	}

	// 6. Setup UseCases
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	candidateRepo := postgres.NewCandidateRepository(db)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validate, tokens)

	checks := map[string]usecase.HealthCheck{"database": pool.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	limiter := middleware.NewRateLimiter(redisClient, logger.Log)
	go limiter.Run(ctx, 5*time.Minute)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		HealthUC:    healthUC,
		Translator:  validation.NewTranslator(catalog),
		Locales:     locales,
		Tokens:      tokens,
		RateLimiter: limiter,
		Config:      cfg,
		Logger:      logger.Log,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", zap.Error(err))
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
