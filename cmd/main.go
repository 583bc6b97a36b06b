package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docqa-service/internal/ai"
	"docqa-service/internal/config"
	"docqa-service/internal/database"
	"docqa-service/internal/logger"
	"docqa-service/internal/telemetry"
	"docqa-service/middleware"
	"docqa-service/routes"
	"docqa-service/services"
	"docqa-service/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

const serviceName = "docqa-service"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTLPEndpoint, cfg.TraceSampleRatio)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Stores
	var (
		users       database.UserStore
		queries     database.QueryStore
		mongoClient *mongo.Client
	)
	if cfg.QuotaEnabled {
		switch cfg.StoreDriver {
		case config.StoreDriverMemory:
			logger.Warn("Using in-memory stores, data is lost on restart")
			users = database.NewMemoryUserStore(cfg.QuotaLimit)
			queries = database.NewMemoryQueryStore()
		default:
			mongoClient, err = config.ConnectMongoDB(cfg)
			if err != nil {
				fatal("Failed to connect to MongoDB", err)
			}
			defer func() {
				ctx, cancel := utils.WithCustomTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := mongoClient.Disconnect(ctx); err != nil {
					logger.Error("Failed to disconnect MongoDB", "error", err)
				}
			}()
			db := mongoClient.Database(cfg.DBName)
			users = database.NewMongoUserStore(db, cfg.QuotaLimit, metrics)
			queries = database.NewMongoQueryStore(db, metrics)
		}
	}

	// Model clients
	geminiClient, err := ai.NewGeminiClient(context.Background(), cfg, metrics)
	if err != nil {
		fatal("Failed to create Gemini client", err)
	}
	defer geminiClient.Close()
	embedder := geminiClient.NewEmbedder(cfg.GoogleEmbeddingsModel, cfg.EmbedBatchSize, metrics)

	// Ingestion: the service does not start without an index
	ingestCtx, cancelIngest := utils.WithCustomTimeout(context.Background(), utils.IngestionTimeout)
	index, err := services.BuildIndex(ingestCtx, cfg, embedder, metrics)
	cancelIngest()
	if err != nil {
		fatal("Failed to build vector index", err)
	}

	templates := services.DefaultPromptTemplates()
	if cfg.PromptsFile != "" {
		templates, err = services.LoadPromptTemplates(cfg.PromptsFile)
		if err != nil {
			fatal("Failed to load prompt templates", err)
		}
	}
	assembler, err := services.NewPromptAssembler(cfg.PromptVariant, templates)
	if err != nil {
		fatal("Failed to create prompt assembler", err)
	}

	pipeline := services.NewQAPipeline(index, assembler, geminiClient, cfg.RetrievalK)
	qaService := services.NewQAService(pipeline, services.QAServiceOptions{
		Users:           users,
		Queries:         queries,
		HistoryLimit:    cfg.HistoryLimit,
		RefundOnFailure: cfg.RefundOnFailure,
		Metrics:         metrics,
	})

	monitor := services.NewHealthMonitor(qaService, time.Duration(cfg.HealthCheckInterval)*time.Second)
	if err := monitor.Start(); err != nil {
		fatal("Failed to start health monitor", err)
	}
	defer monitor.Stop()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware(serviceName), middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.RequestSizeLimit(middleware.DefaultMaxBodySize))

	if cfg.RateLimitEnabled {
		rdb, err := config.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			router.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitReqs, cfg.RateLimitWindow))
		}
	}

	if err := routes.SetupRoutes(router, routes.Dependencies{
		Config:  cfg,
		Service: qaService,
		Index:   index,
		Health:  monitor,
	}); err != nil {
		fatal("Failed to set up routes", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting",
			"port", cfg.Port,
			"quota_enabled", cfg.QuotaEnabled,
			"store_driver", cfg.StoreDriver,
			"prompt_variant", cfg.PromptVariant,
			"chunks", index.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := utils.WithCustomTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
