package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/clearbas/compliance-engine/pkg/bas"
	"github.com/clearbas/compliance-engine/pkg/config"
	"github.com/clearbas/compliance-engine/pkg/evidence"
	bashandler "github.com/clearbas/compliance-engine/pkg/handlers/bas"
	"github.com/clearbas/compliance-engine/pkg/handlers/designated"
	evidencehandler "github.com/clearbas/compliance-engine/pkg/handlers/evidence"
	"github.com/clearbas/compliance-engine/pkg/ledger"
	"github.com/clearbas/compliance-engine/pkg/middleware"
	"github.com/clearbas/compliance-engine/pkg/partner"
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

	// AWS Session
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.Tables())

	capability := cfg.PartnerCapability()
	if capability.MaxReadTransactions == 0 {
		capability.MaxReadTransactions = partner.DefaultMaxReadTransactions
	}
	if capability.MaxWriteCents == 0 {
		capability.MaxWriteCents = partner.DefaultMaxWriteCents
	}

	ledgerService := ledger.NewService(store, logger)
	orchestrator := bas.NewOrchestrator(store, logger)
	generator := evidence.NewGenerator(store, logger)

	designatedHandler := designated.NewHandler(ledgerService, store, capability)
	basHandler := bashandler.NewHandler(orchestrator)
	evidenceHandler := evidencehandler.NewHandler(generator, store)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Route("/designated-accounts", func(r chi.Router) {
		r.Get("/", designatedHandler.ListAccounts)
		r.Post("/{accountID}/credits", designatedHandler.CreditAccount)
		r.Post("/{accountID}/debit-probe", designatedHandler.ProbeDebit)
	})
	router.Route("/orgs/{orgID}", func(r chi.Router) {
		r.Post("/bas/orchestrate", basHandler.Orchestrate)
		r.Post("/evidence/reconciliation", evidenceHandler.GenerateReconciliation)
	})
	router.Route("/evidence/{artifactID}", func(r chi.Router) {
		r.Get("/", evidenceHandler.GetArtifact)
		r.Post("/seal", evidenceHandler.SealArtifact)
	})

	logger.Info("starting server", "port", cfg.HTTPPort)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
