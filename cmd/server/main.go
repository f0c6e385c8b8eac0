package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	crmhttp "CaseFilePlatform/internal/handler/http"
	crmmetrics "CaseFilePlatform/internal/metrics"
	"CaseFilePlatform/internal/repository/postgres"
	"CaseFilePlatform/internal/service"
	"CaseFilePlatform/migrations"
	"CaseFilePlatform/pkg/config"
	"CaseFilePlatform/pkg/database"
	"CaseFilePlatform/pkg/health"
	"CaseFilePlatform/pkg/logger"
)

func main() {
	// Инициализация конфигурации
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger, err := logger.NewLogger(cfg.Environment, cfg.Logger.Level, "case-file-service")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := appLogger.Sync(); err != nil {
			log.Printf("Error syncing logger: %v", err)
		}
	}()

	// Инициализация базы данных
	dbConfig := database.NewConfig()
	dbConfig.Host = cfg.Database.Host
	dbConfig.Port = cfg.Database.Port
	dbConfig.User = cfg.Database.User
	dbConfig.Password = cfg.Database.Password
	dbConfig.Database = cfg.Database.Name
	dbConfig.SSLMode = cfg.Database.SSLMode

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	postgresDB, err := database.Connect(ctx, dbConfig)
	if err != nil {
		appLogger.Error("Failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer postgresDB.Close()

	// Применение миграций
	if err := database.Migrate(dbConfig.DSN(), migrations.FS, "."); err != nil {
		appLogger.Error("Failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	// Инициализация репозиториев
	agentRepo := postgres.NewAgentRepository(postgresDB.Pool, appLogger)
	clientRepo := postgres.NewClientRepository(postgresDB.Pool, appLogger)
	phoneRepo := postgres.NewPhoneRepository(postgresDB.Pool, appLogger)
	passportRepo := postgres.NewPassportRepository(postgresDB.Pool, appLogger)
	snilsRepo := postgres.NewSnilsRepository(postgresDB.Pool, appLogger)
	lookupRepo := postgres.NewLookupRepository(postgresDB.Pool, appLogger)
	issuer := postgres.NewSequenceIssuer(postgresDB.Pool)

	// Инициализация метрик
	metricCollector := crmmetrics.NewCRMMetrics("case_file_service")

	// Инициализация сервисов
	agentService := service.NewAgentService(agentRepo, issuer, cfg.Pagination, appLogger, metricCollector)
	clientService := service.NewClientService(clientRepo, lookupRepo, issuer, cfg.Pagination, appLogger, metricCollector)
	documentService := service.NewDocumentService(clientRepo, phoneRepo, passportRepo, snilsRepo, appLogger, metricCollector)
	lookupService := service.NewLookupService(lookupRepo, appLogger, metricCollector)

	// Настройка HTTP сервера
	router := chi.NewRouter()
	router.Use(metricCollector.Base().Middleware)

	router.Get("/health", health.Handler(newDatabaseHealthChecker(postgresDB)))
	router.Get("/ready", health.ReadyHandler())
	router.Get("/live", health.LiveHandler())
	router.Method(http.MethodGet, "/metrics", metricCollector.Base().GetHandler())

	crmhttp.NewAgentHandler(agentService, appLogger).Register(router)
	crmhttp.NewClientHandler(clientService, appLogger).Register(router)
	crmhttp.NewDocumentHandler(documentService, appLogger).Register(router)
	crmhttp.NewLookupHandler(lookupService, appLogger).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		appLogger.Info("Starting case file service server", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", logger.Error(err))
		}
	}()

	// Обработка сигналов для graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", logger.Error(err))
	}

	appLogger.Info("Server stopped")
}

// databaseHealthChecker проверяет доступность PostgreSQL
type databaseHealthChecker struct {
	db *database.Postgres
}

func newDatabaseHealthChecker(db *database.Postgres) *databaseHealthChecker {
	return &databaseHealthChecker{db: db}
}

// Check опрашивает базу с коротким таймаутом
func (c *databaseHealthChecker) Check() *health.HealthStatus {
	status := &health.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  map[string]health.Status{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.db.HealthCheck(ctx); err != nil {
		status.Status = "unhealthy"
		status.Services["postgres"] = health.Status{Status: "unhealthy", Details: err.Error()}
		return status
	}

	status.Services["postgres"] = health.Status{Status: "healthy"}
	return status
}
