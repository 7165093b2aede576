package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cypherlabdev/orderflow/internal/config"
	healthHandler "github.com/cypherlabdev/orderflow/internal/handler/http"
	"github.com/cypherlabdev/orderflow/internal/httpmw"
	"github.com/cypherlabdev/orderflow/internal/inventory"
	"github.com/cypherlabdev/orderflow/internal/observability"
)

const serviceName = "inventory"

func main() {
	cfg, err := config.LoadInventoryConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := observability.NewLogger(observability.LoggerConfig{
		Service: serviceName,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
	})
	logger.Info().Msg("inventory service starting")

	metrics := observability.NewMetrics()

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()
	if err := dbPool.Ping(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping database")
	}
	logger.Info().Msg("database connection established")

	repo := inventory.NewPostgresRepository(dbPool, logger)
	service := inventory.NewService(repo, metrics, logger)
	handler := inventory.NewHandler(service, logger)

	router := mux.NewRouter()
	router.Use(httpmw.Recovery(logger), httpmw.Tracing(serviceName), httpmw.Logging(logger))
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", healthHandler.HealthHandler(dbPool, serviceName, logger)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}
