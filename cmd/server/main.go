package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/cache"
	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/database"
	"github.com/anyulbade/loan-portfolio-simulator/internal/handler"
	"github.com/anyulbade/loan-portfolio-simulator/internal/middleware"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded .env")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	params, err := config.LoadParameters(cfg.ParamsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.ParamsFile).Msg("failed to load simulation parameters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedCatalog(context.Background(), pool, params); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Msg("summary cache disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool, redisClient)
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router)
	setupAPIRoutes(router, pool, redisClient, params, cfg.CacheTTL)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, redisClient *redis.Client, params config.Parameters, cacheTTL time.Duration) {
	runRepo := repository.NewRunRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)
	summaryRepo := repository.NewSummaryRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	summaryCache := cache.NewSummaryCache(redisClient, cacheTTL)

	simService := service.NewSimulationService(params, runRepo)
	portfolioService := service.NewPortfolioService(runRepo, snapshotRepo, summaryRepo, summaryCache)
	catalogService := service.NewCatalogService(catalogRepo)
	reportService := service.NewReportService(portfolioService)
	trendService := service.NewTrendService(portfolioService)

	simHandler := handler.NewSimulationHandler(simService, portfolioService)
	snapshotHandler := handler.NewSnapshotHandler(portfolioService)
	summaryHandler := handler.NewSummaryHandler(portfolioService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	trendHandler := handler.NewTrendHandler(trendService)

	api := router.Group("/api/v1")
	{
		api.GET("/catalog", catalogHandler.GetCatalog)
		api.POST("/simulations", simHandler.Create)
		api.GET("/simulations", simHandler.List)
		api.GET("/simulations/:id", simHandler.Get)
		api.GET("/simulations/:id/snapshots", snapshotHandler.List)
		api.GET("/simulations/:id/summary", summaryHandler.Get)
		api.GET("/simulations/:id/report", reportHandler.GetReport)
		api.GET("/simulations/:id/trends", trendHandler.GetTrends)
	}
}
