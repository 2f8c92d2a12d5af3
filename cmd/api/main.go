package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"complianceapi/docs"
	"complianceapi/internal/config"
	"complianceapi/internal/database"
	"complianceapi/internal/database/migration"
	"complianceapi/internal/dataset"
	"complianceapi/internal/embedding"
	handlers "complianceapi/internal/http/handler"
	"complianceapi/internal/http/middleware"
	"complianceapi/internal/llm"
	"complianceapi/internal/logging"
	tracing "complianceapi/internal/otel"
	"complianceapi/internal/repository/postgres"
	"complianceapi/internal/service"
	"complianceapi/internal/storage"
	"complianceapi/internal/vectorstore"
)

const (
	shutdownTimeout = 15 * time.Second
	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20
)

// @title Contract Compliance API
// @version 1.0
// @BasePath /
func main() {
	cfg, err := config.LoadWithFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Location(), os.Stdout)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid_configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logging.Component(logger, "otel"))
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logging.Component(logger, "migration"), cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Outbound calls (MinIO, Groq, embedding providers) share one traced transport.
	transport := otelhttp.NewTransport(http.DefaultTransport)
	httpClient := &http.Client{Transport: transport}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, transport)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	llmMetrics, err := llm.NewMetrics(reg)
	if err != nil {
		logger.Fatal("failed to register llm metrics", zap.Error(err))
	}
	groq := llm.NewGroqClient(cfg.LLM,
		llm.WithHTTPClient(httpClient),
		llm.WithMetrics(llmMetrics),
		llm.WithLogger(logging.Component(logger, "llm")),
	)

	embedder, err := embedding.New(ctx, cfg.Embedding, httpClient)
	if err != nil {
		logger.Fatal("failed to initialize embedder", zap.Error(err))
	}

	vectors, err := vectorstore.New(cfg.Vector, embedder.Dimensions(), db)
	if err != nil {
		logger.Fatal("failed to initialize vector store", zap.Error(err))
	}

	seeder := dataset.NewSeeder(vectors, embedder, cfg.Dataset.Path, cfg.Dataset.SeedConcurrency, logging.Component(logger, "dataset"))
	if _, err := seeder.InitializeCollection(ctx); err != nil {
		// analysis still works, it just finds no similar contract
		logger.Error("vector_collection_seed_failed", zap.Error(err))
	}

	repo := postgres.NewContractPostgres(db)
	svcLogger := logging.Component(logger, "service")
	contractSvc := service.NewContractService(objStore, repo, groq, cfg.UploadMaxBytes, svcLogger)
	analysisSvc := service.NewAnalysisService(groq, embedder, vectors, repo, svcLogger)

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.UploadMaxBytes) + multipartOverhead,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logging.Component(logger, "http")))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Vectors:   vectors,
		Contracts: contractSvc,
		Analysis:  analysisSvc,
		Swagger:   docs.SwaggerInfo,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_started", zap.String("addr", addr), zap.String("host", cfg.AppHost))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server_failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("server_shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing_shutdown_failed", zap.Error(err))
	}
}
