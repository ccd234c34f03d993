// Package config loads engine configuration from environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/storage/dynamodb"
	"github.com/spf13/viper"
)

// Config holds all configuration for the compliance engine.
type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	AccountsTable  string `mapstructure:"ACCOUNTS_TABLE"`
	TransfersTable string `mapstructure:"TRANSFERS_TABLE"`
	AlertsTable    string `mapstructure:"ALERTS_TABLE"`
	CyclesTable    string `mapstructure:"CYCLES_TABLE"`
	AttemptsTable  string `mapstructure:"ATTEMPTS_TABLE"`
	EvidenceTable  string `mapstructure:"EVIDENCE_TABLE"`
	AuditTable     string `mapstructure:"AUDIT_TABLE"`

	EscalationQueueURL string `mapstructure:"ESCALATION_QUEUE_URL"`
	MetricsNamespace   string `mapstructure:"METRICS_NAMESPACE"`

	PartnerID                  string `mapstructure:"PARTNER_ID"`
	PartnerBaseURL             string `mapstructure:"PARTNER_BASE_URL"`
	PartnerAPIKey              string `mapstructure:"PARTNER_API_KEY"`
	PartnerMaxReadTransactions int    `mapstructure:"PARTNER_MAX_READ_TRANSACTIONS"`
	PartnerMaxWriteCents       int64  `mapstructure:"PARTNER_MAX_WRITE_CENTS"`

	RetryJobSchedule         string `mapstructure:"RETRY_JOB_SCHEDULE"`
	OrchestrationJobSchedule string `mapstructure:"ORCHESTRATION_JOB_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("ACCOUNTS_TABLE", "designated-accounts")
	viper.SetDefault("TRANSFERS_TABLE", "designated-transfers")
	viper.SetDefault("ALERTS_TABLE", "compliance-alerts")
	viper.SetDefault("CYCLES_TABLE", "bas-cycles")
	viper.SetDefault("ATTEMPTS_TABLE", "bas-payment-attempts")
	viper.SetDefault("EVIDENCE_TABLE", "evidence-artifacts")
	viper.SetDefault("AUDIT_TABLE", "audit-trail")
	viper.SetDefault("METRICS_NAMESPACE", "ComplianceEngine")
	viper.SetDefault("RETRY_JOB_SCHEDULE", "* * * * *")          // Every minute.
	viper.SetDefault("ORCHESTRATION_JOB_SCHEDULE", "*/5 * * * *") // Every 5 minutes.
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range []string{
		"HTTP_PORT",
		"ACCOUNTS_TABLE", "TRANSFERS_TABLE", "ALERTS_TABLE", "CYCLES_TABLE",
		"ATTEMPTS_TABLE", "EVIDENCE_TABLE", "AUDIT_TABLE",
		"ESCALATION_QUEUE_URL", "METRICS_NAMESPACE",
		"PARTNER_ID", "PARTNER_BASE_URL", "PARTNER_API_KEY",
		"PARTNER_MAX_READ_TRANSACTIONS", "PARTNER_MAX_WRITE_CENTS",
		"RETRY_JOB_SCHEDULE", "ORCHESTRATION_JOB_SCHEDULE",
	} {
		_ = viper.BindEnv(key)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations that would fail at first use.
func (c *Config) Validate() error {
	if c.PartnerBaseURL != "" && c.PartnerAPIKey == "" {
		return errors.New("PARTNER_API_KEY is required when PARTNER_BASE_URL is set")
	}
	if c.PartnerMaxWriteCents < 0 {
		return fmt.Errorf("PARTNER_MAX_WRITE_CENTS must not be negative, got %d", c.PartnerMaxWriteCents)
	}
	return nil
}

// Tables maps the configured table names into the storage layer's form.
func (c *Config) Tables() dynamodb.TableNames {
	return dynamodb.TableNames{
		Accounts:  c.AccountsTable,
		Transfers: c.TransfersTable,
		Alerts:    c.AlertsTable,
		Cycles:    c.CyclesTable,
		Attempts:  c.AttemptsTable,
		Evidence:  c.EvidenceTable,
		Audit:     c.AuditTable,
	}
}

// PartnerCapability builds the capability descriptor advertised for the
// configured partner.
func (c *Config) PartnerCapability() models.PartnerCapability {
	return models.PartnerCapability{
		ID:                  c.PartnerID,
		MaxReadTransactions: c.PartnerMaxReadTransactions,
		MaxWriteCents:       c.PartnerMaxWriteCents,
	}
}
