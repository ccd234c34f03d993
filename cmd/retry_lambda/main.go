package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/clearbas/compliance-engine/pkg/config"
	"github.com/clearbas/compliance-engine/pkg/metrics"
	"github.com/clearbas/compliance-engine/pkg/partner"
	"github.com/clearbas/compliance-engine/pkg/payments"
	dydbstore "github.com/clearbas/compliance-engine/pkg/storage/dynamodb"
)

var scheduler *payments.Scheduler

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize dependencies once.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables())
	escalator := payments.NewSQSEscalator(sqs.NewFromConfig(awsCfg), cfg.EscalationQueueURL)
	recorder := metrics.NewCloudWatchRecorder(cloudwatch.NewFromConfig(awsCfg), cfg.MetricsNamespace)

	executor, err := partner.NewClient(cfg.PartnerBaseURL, cfg.PartnerAPIKey, cfg.PartnerCapability())
	if err != nil {
		log.Fatalf("failed to build partner client: %v", err)
	}

	scheduler = payments.NewScheduler(store, executor, escalator, recorder, logger)
}

// HandleRequest runs one pass of the payment retry loop.
func HandleRequest(ctx context.Context) error {
	result, err := scheduler.ProcessQueue(ctx, payments.Options{})
	if err != nil {
		log.Printf("ERROR: payment retry run failed: %v", err)
		return err
	}

	log.Printf("Processed %d due attempts: %d succeeded, %d retried, %d exhausted, %d offline, %d skipped",
		result.Due, result.Succeeded, result.Retried, result.Exhausted, result.Offline, result.Skipped)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
