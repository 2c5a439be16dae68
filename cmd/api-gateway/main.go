package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lejian-admin-api/api/swagger"
	"github.com/noah-isme/lejian-admin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/lejian-admin-api/internal/middleware"
	"github.com/noah-isme/lejian-admin-api/internal/models"
	"github.com/noah-isme/lejian-admin-api/internal/repository"
	"github.com/noah-isme/lejian-admin-api/internal/service"
	"github.com/noah-isme/lejian-admin-api/pkg/cache"
	"github.com/noah-isme/lejian-admin-api/pkg/config"
	"github.com/noah-isme/lejian-admin-api/pkg/database"
	"github.com/noah-isme/lejian-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lejian-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lejian-admin-api/pkg/middleware/requestid"
)

// @title Lejian Admin API
// @version 1.0.0
// @description Administrative dashboard for the campus running program
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()
	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "lejian:")
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StatsTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	// Views cached by a previous build may be stale against this build's seed data.
	if err := cacheSvc.Invalidate(ctx, "*"); err != nil {
		logr.Warn("failed to flush cached views", zap.Error(err))
	}

	appealRepo, db, err := buildAppealStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise appeal store", zap.Error(err))
	}
	if db != nil {
		defer db.Close() //nolint:errcheck
		checks["postgres"] = db.PingContext
	}

	roster := repository.NewRosterRepository()
	authSvc := service.NewAuthService(
		credentialVerifier(cfg.Admin),
		service.NewSessionRegistry(cfg.JWT.Expiration),
		models.AdminProfile{ID: cfg.Admin.ID, Role: cfg.Admin.Role, Department: cfg.Admin.Department},
		validate, metrics, logr,
		service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, AccessTokenExpiry: cfg.JWT.Expiration, Issuer: "lejian-admin-api"},
	)
	appealSvc := service.NewAppealService(appealRepo, validate, metrics, logr)
	checkInSvc := service.NewCheckInService(roster, cacheSvc, logr, service.CheckInConfig{
		TotalWeeks:  cfg.CheckIn.TotalWeeks,
		ActiveWeeks: cfg.CheckIn.ActiveWeeks,
	})
	statsSvc := service.NewStatsService(roster, cacheSvc, logr, service.StatsConfig{
		Seed:            cfg.Stats.Seed,
		StudentCount:    cfg.Stats.StudentCount,
		AtRiskThreshold: cfg.Stats.AtRiskThreshold,
	})
	dashboardSvc := service.NewDashboardService(authSvc, appealSvc, checkInSvc, statsSvc, validate)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Appeals:   handler.NewAppealHandler(appealSvc),
		CheckIn:   handler.NewCheckInHandler(checkInSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Ops:       handler.NewOpsHandler(metrics, checks),
	}, internalmiddleware.Session(authSvc))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("appeal_store", cfg.AppealStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func buildAppealStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.AppealRepository, *sqlx.DB, error) {
	if cfg.AppealStore != config.StorePostgres {
		repo, err := repository.NewMemoryAppealRepository(repository.AppealSeed())
		return repo, nil, err
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewAppealSQLRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := repo.Seed(ctx, repository.AppealSeed()); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logr.Info("appeal store ready", zap.String("backend", config.StorePostgres))
	return repo, db, nil
}

func credentialVerifier(admin config.AdminConfig) service.CredentialVerifier {
	if admin.PasswordHash != "" {
		return service.BcryptVerifier{Username: admin.Username, Hash: admin.PasswordHash}
	}
	return service.LiteralVerifier{Username: admin.Username, Password: admin.Password}
}
