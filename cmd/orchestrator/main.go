package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cypherlabdev/orderflow/internal/config"
	healthHandler "github.com/cypherlabdev/orderflow/internal/handler/http"
	"github.com/cypherlabdev/orderflow/internal/httpmw"
	"github.com/cypherlabdev/orderflow/internal/ledger"
	amqpalerts "github.com/cypherlabdev/orderflow/internal/messaging/amqp"
	"github.com/cypherlabdev/orderflow/internal/observability"
	"github.com/cypherlabdev/orderflow/internal/outbox"
	"github.com/cypherlabdev/orderflow/internal/saga"
)

const serviceName = "orchestrator"

// The Orchestrator runs no public business API of its own: its HTTP
// server exposes only /health and /metrics, while the outbox poller and
// saga executor drive the saga state graph entirely in the background
// (spec.md §4.2-§4.5), calling out to Orders/Inventory/Payments over
// HTTP.
func main() {
	cfg, err := config.LoadOrchestratorConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := observability.NewLogger(observability.LoggerConfig{
		Service: serviceName,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
	})
	logger.Info().Msg("orchestrator starting")

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

	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Compression = sarama.CompressionSnappy

	kafkaProducer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, kafkaConfig)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create kafka producer, analytics fan-out disabled")
	}
	var analytics *outbox.AnalyticsPublisher
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
		analytics = outbox.NewAnalyticsPublisher(kafkaProducer, logger)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Msg("kafka analytics producer initialized")
	}

	alerter, err := amqpalerts.NewAlerter(cfg.AMQPURL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to amqp broker, compensation alerts disabled")
	} else {
		defer alerter.Close()
	}

	ledgerRepo := ledger.NewPostgresRepository(dbPool, logger)
	outboxRepo := outbox.NewPostgresRepository(dbPool, logger)

	stepClient := saga.NewHTTPStepClient(cfg.OrdersURL, cfg.InventoryURL, cfg.PaymentsURL, 10*time.Second)
	retryPolicy := saga.NewRetryPolicy(cfg.MaxRetryAttempts, cfg.RetryBaseDelay, cfg.RetryBackoffMultiple)

	var compensationAlerter saga.CompensationAlerter
	if alerter != nil {
		compensationAlerter = alerter
	}
	compensator := saga.NewCompensator(stepClient, compensationAlerter, metrics, logger)
	executor := saga.NewExecutor(ledgerRepo, dbPool, stepClient, retryPolicy, compensator, metrics, logger)

	poller := outbox.NewPoller(outboxRepo, executor, dbPool, analytics, metrics, logger, cfg.PollInterval, cfg.ClaimLease, cfg.WorkerConcurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)
	logger.Info().Msg("outbox poller and saga executor started")

	router := mux.NewRouter()
	router.Use(httpmw.Recovery(logger), httpmw.Tracing(serviceName), httpmw.Logging(logger))
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}
