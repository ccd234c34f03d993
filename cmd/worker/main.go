// The worker is a non-HTTP, long-running process that drives the scheduled
// compliance jobs: the BAS payment retry loop and the per-org orchestration
// sweep.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/clearbas/compliance-engine/pkg/bas"
	"github.com/clearbas/compliance-engine/pkg/config"
	"github.com/clearbas/compliance-engine/pkg/metrics"
	"github.com/clearbas/compliance-engine/pkg/partner"
	"github.com/clearbas/compliance-engine/pkg/payments"
	dydbstore "github.com/clearbas/compliance-engine/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.PartnerBaseURL == "" {
		logger.Error("PARTNER_BASE_URL is required for the worker")
		os.Exit(1)
	}
	if cfg.EscalationQueueURL == "" {
		logger.Error("ESCALATION_QUEUE_URL is required for the worker")
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables())
	escalator := payments.NewSQSEscalator(sqs.NewFromConfig(awsCfg), cfg.EscalationQueueURL)
	recorder := metrics.NewCloudWatchRecorder(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace)

	executor, err := partner.NewClient(cfg.PartnerBaseURL, cfg.PartnerAPIKey, cfg.PartnerCapability())
	if err != nil {
		logger.Error("failed to build partner client", "error", err)
		os.Exit(1)
	}

	scheduler := payments.NewScheduler(store, executor, escalator, recorder, logger)
	orchestrator := bas.NewOrchestrator(store, logger)
	jobs := &Jobs{Store: store, Scheduler: scheduler, Orchestrator: orchestrator, Logger: logger}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	if _, err := c.AddFunc(cfg.RetryJobSchedule, jobs.ProcessPaymentRetries); err != nil {
		logger.Error("failed to schedule payment retry job", "error", err)
		os.Exit(1)
	}
	logger.Info("scheduled payment retry job", "schedule", cfg.RetryJobSchedule)

	if _, err := c.AddFunc(cfg.OrchestrationJobSchedule, jobs.OrchestrateAllOrgs); err != nil {
		logger.Error("failed to schedule orchestration sweep job", "error", err)
		os.Exit(1)
	}
	logger.Info("scheduled orchestration sweep job", "schedule", cfg.OrchestrationJobSchedule)

	c.Start()
	logger.Info("worker started")

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping worker")
	<-c.Stop().Done()
	logger.Info("worker stopped gracefully")
}
