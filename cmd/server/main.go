package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planche-service/internal/domain/patch"
	"planche-service/internal/infrastructure/config"
	"planche-service/internal/infrastructure/persistence"
	"planche-service/internal/infrastructure/router"
	"planche-service/internal/interface/handler"
	"planche-service/internal/interface/repository"
	"planche-service/internal/usecase"
	"planche-service/pkg/logger"
	"planche-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Create logger
	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()
	log.Info("Starting Planche Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the update audit log
	log.Info("Connecting to MongoDB")
	db, err := persistence.NewMongoDatabase(ctx, persistence.MongoConfig{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDB,
		Username:       cfg.MongoUser,
		Password:       cfg.MongoPassword,
		ConnectTimeout: cfg.MongoConnectTimeout,
	})
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL connection for rosters
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI, cfg.QueryTimeout)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := repository.Migrate(gormDB); err != nil {
		log.Fatal("Failed to migrate roster tables", "error", err)
	}

	// Set up repositories
	rosterRepo := repository.NewGormRosterRepository(gormDB, cfg.QueryTimeout)
	updateRepo, err := repository.NewMongoUpdateRepository(ctx, db)
	if err != nil {
		log.Fatal("Failed to set up update repository", "error", err)
	}

	var applierOpts []patch.Option
	if cfg.UniqueFlights {
		applierOpts = append(applierOpts, patch.WithUniqueFlights())
	}

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	rosterService := usecase.NewRosterService(patch.NewApplier(applierOpts...), rosterRepo, updateRepo, m, log, cfg.UpdateMaxAge)

	// Start update retention in a goroutine
	go rosterService.RunRetention(ctx, cfg.PruneInterval)

	// Set up HTTP server
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewRouter(handler.NewRosterHandler(rosterService, log), prometheus.DefaultGatherer, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("PostgreSQL close error", "error", err)
		}
	}

	// Disconnect from MongoDB
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Planche Service stopped")
}
