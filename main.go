package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/api"
	"github.com/mailflow/mailq/auth"
	"github.com/mailflow/mailq/backend"
	"github.com/mailflow/mailq/configs"
	jobsmetrics "github.com/mailflow/mailq/jobs/metrics"
	"github.com/mailflow/mailq/metrics"
	"github.com/mailflow/mailq/services"
)

func main() {
	configureLogging()

	authSecret := getAuthSecret()
	if authSecret == "" {
		log.Fatal().Msg("auth secret is not provided: either set MAILQ_AUTH_SECRET environment variable or pass it as a command line argument --auth-secret")
	}
	jwtIssuer := os.Getenv("MAILQ_JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "mailflow"
	}

	appConfigs := configs.NewAppConfig()

	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}
	sqsBackend := backend.NewSqsClient(awsConfig)

	metricsService := metrics.NewMetricsService(os.Getenv("MAILQ_METRICS_ENABLED") == "true")

	queuesService := services.NewQueuesService(sqsBackend, metricsService)
	messagesService := services.NewMessagesService(sqsBackend, appConfigs, metricsService)
	monitoringService := services.NewMonitoringService(sqsBackend)

	queuesDepthMetricsJob := jobsmetrics.NewQueuesDepthMetricsJob(metricsService, sqsBackend, appConfigs.JobsIntervals.QueuesDepthMetricsMs)
	defer queuesDepthMetricsJob.Close()

	validator := auth.NewJwtValidator(authSecret, jwtIssuer)
	apiRouter := api.NewRouter(queuesService, messagesService, monitoringService, validator)

	addr := os.Getenv("MAILQ_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           http.TimeoutHandler(apiRouter.NewRouter(), appConfigs.ServerConfig.Timeouts.Handle, "timeout"),
		WriteTimeout:      appConfigs.ServerConfig.Timeouts.Write,
		ReadTimeout:       appConfigs.ServerConfig.Timeouts.Read,
		ReadHeaderTimeout: appConfigs.ServerConfig.Timeouts.ReadHeader,
		IdleTimeout:       appConfigs.ServerConfig.Timeouts.Idle,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownCh
	log.Info().Msg("server shutdown requested")

	if err := server.Shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed, closing server")
		if err := server.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close server")
		}
	}
}

func configureLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if os.Getenv("MAILQ_LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getAuthSecret() string {
	authSecret := os.Getenv("MAILQ_AUTH_SECRET")
	if authSecret != "" {
		return authSecret
	}

	var flagAuthSecret string
	flag.StringVar(&flagAuthSecret, "auth-secret", "", "Authentication secret")
	flag.Parse()

	return flagAuthSecret
}
