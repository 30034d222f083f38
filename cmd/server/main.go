package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pseudocoder/relay/internal/config"
	"github.com/pseudocoder/relay/internal/database"
	"github.com/pseudocoder/relay/internal/eventbus"
	"github.com/pseudocoder/relay/internal/handlers"
	"github.com/pseudocoder/relay/internal/inference"
	"github.com/pseudocoder/relay/internal/journal"
	"github.com/pseudocoder/relay/internal/metrics"
	"github.com/pseudocoder/relay/internal/middleware"
	"github.com/pseudocoder/relay/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/pseudocoder/relay/docs" // Swagger docs
)

// @title Pseudocoder Relay API
// @version 0.1.0
// @description Relays pseudocode and problem statements to a hosted text-generation model.
// @host localhost:5000
// @BasePath /
// @schemes http
func main() {
	ctx := context.Background()

	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("relay starting",
		zap.String("version", handlers.Version),
		zap.String("environment", cfg.Environment),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.ModelName),
		zap.Duration("upstream_timeout", cfg.UpstreamTimeout),
	)

	shutdownTelemetry, err := telemetry.InitTracer(ctx, "pseudocoder-relay", handlers.Version, cfg.OTLPEndpoint)
	if err != nil {
		// Collector might be down, serve anyway
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	generator, err := inference.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize inference client", zap.Error(err))
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	exchanges, closeSinks := openJournal(ctx, cfg, logger)
	defer closeSinks()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	relayMetrics := metrics.New(registry)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	healthHandler := handlers.NewHealthHandler(exchanges, generator.Name(), cfg.ModelName)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	relayHandler := handlers.NewRelayHandler(generator, cfg.ModelName, logger, relayMetrics, exchanges)
	router.POST("/generate", relayHandler.Generate)
	router.POST("/solve", relayHandler.Solve)

	// Writes must outlive the slowest upstream call
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	exchanges.Wait()

	logger.Info("server exited gracefully")
}

// openJournal connects every configured journal sink. A sink that cannot be
// reached is logged and skipped; the relay never depends on it.
func openJournal(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*journal.Journal, func()) {
	var sinks []journal.Sink
	var closers []func()

	if cfg.DatabaseURL != "" {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("failed to run journal migrations", zap.Error(err))
		} else if db, err := database.NewPostgres(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to connect to database", zap.Error(err))
		} else {
			sinks = append(sinks, journal.NewPostgresSink(db))
			closers = append(closers, db.Close)
			logger.Info("postgres journal enabled")
		}
	}

	if cfg.RedisURL != "" {
		if rdb, err := database.NewRedis(ctx, cfg.RedisURL); err != nil {
			logger.Error("failed to connect to redis", zap.Error(err))
		} else {
			sinks = append(sinks, journal.NewRedisSink(rdb.Client(), journal.DefaultStream, journal.DefaultStreamMaxLen))
			closers = append(closers, func() { _ = rdb.Close() })
			logger.Info("redis journal enabled")
		}
	}

	if cfg.NATSURL != "" {
		if bus, err := eventbus.Connect(cfg.NATSURL, logger); err != nil {
			logger.Error("failed to connect to NATS", zap.Error(err))
		} else {
			sinks = append(sinks, journal.NewNATSSink(bus))
			closers = append(closers, bus.Close)
			logger.Info("nats journal enabled")
		}
	}

	return journal.New(logger, sinks...), func() {
		for _, c := range closers {
			c()
		}
	}
}
