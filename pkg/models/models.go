package models

import (
	"fmt"
	"time"
)

// AccountType identifies which tax obligation a designated account secures.
type AccountType string

const (
	PAYGW AccountType = "PAYGW"
	GST   AccountType = "GST"
)

// AlertSeverity defines the possible severities of an alert.
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "LOW"
	SeverityMedium AlertSeverity = "MEDIUM"
	SeverityHigh   AlertSeverity = "HIGH"
)

// Alert types raised by the ledger policy and the BAS orchestrator.
const (
	AlertDesignatedWithdrawalAttempt = "DESIGNATED_WITHDRAWAL_ATTEMPT"
	AlertPaygwShortfall              = "PAYGW_SHORTFALL"
	AlertGstShortfall                = "GST_SHORTFALL"
)

// CycleStatus defines the possible states of a BAS cycle.
type CycleStatus string

const (
	BLOCKED CycleStatus = "BLOCKED"
	READY   CycleStatus = "READY"
	LODGED  CycleStatus = "LODGED"
)

// AttemptStatus defines the possible states of a BAS payment attempt.
type AttemptStatus string

const (
	PENDING   AttemptStatus = "PENDING"
	RETRYING  AttemptStatus = "RETRYING"
	SUCCEEDED AttemptStatus = "SUCCEEDED"
	FAILED    AttemptStatus = "FAILED"
)

// Audit actions written by the core components.
const (
	ActionPartnerReconcile = "designatedAccount.partnerReconcile"
	ActionViolation        = "designatedAccount.violation"
	ActionReconciliation   = "designatedAccount.reconciliation"
	ActionBasOrchestrated  = "bas.orchestrated"
)

// DesignatedAccount is a segregated, credit-only holding account. Its balance
// only ever increases through the credit primitive; any attempted decrease is
// a policy violation.
type DesignatedAccount struct {
	ID        string      `json:"id" dynamodbav:"id"`
	OrgID     string      `json:"org_id" dynamodbav:"org_id"`
	Type      AccountType `json:"type" dynamodbav:"type"`
	Balance   int64       `json:"balance" dynamodbav:"balance"`
	UpdatedAt time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// DesignatedTransfer records a single movement into a designated account.
// Amount is signed minor units; only positive amounts are ever persisted.
type DesignatedTransfer struct {
	ID        string    `json:"id" dynamodbav:"id"`
	OrgID     string    `json:"org_id" dynamodbav:"org_id"`
	AccountID string    `json:"account_id" dynamodbav:"account_id"`
	Amount    int64     `json:"amount" dynamodbav:"amount"`
	Source    string    `json:"source" dynamodbav:"source"`
	ActorID   string    `json:"actor_id" dynamodbav:"actor_id"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Alert is raised when a violation or funding shortfall is detected. At most
// one open alert (ResolvedAt == nil) exists per (OrgID, Type).
type Alert struct {
	ID             string        `json:"id" dynamodbav:"id"`
	OrgID          string        `json:"org_id" dynamodbav:"org_id"`
	Type           string        `json:"type" dynamodbav:"type"`
	Severity       AlertSeverity `json:"severity" dynamodbav:"severity"`
	Message        string        `json:"message" dynamodbav:"message"`
	CreatedAt      time.Time     `json:"created_at" dynamodbav:"created_at"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty" dynamodbav:"resolved_at,omitempty"`
	ResolutionNote string        `json:"resolution_note,omitempty" dynamodbav:"resolution_note,omitempty"`
}

// EvidenceArtifact is a hash-addressed snapshot of compliance state produced
// for regulator verification. Payload and SHA256 never change after creation;
// WormURI is assigned exactly once by the seal step.
type EvidenceArtifact struct {
	ID        string    `json:"id" dynamodbav:"id"`
	OrgID     string    `json:"org_id" dynamodbav:"org_id"`
	Kind      string    `json:"kind" dynamodbav:"kind"`
	SHA256    string    `json:"sha256" dynamodbav:"sha256"`
	WormURI   string    `json:"worm_uri,omitempty" dynamodbav:"worm_uri,omitempty"`
	Payload   string    `json:"payload" dynamodbav:"payload"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// BasCycle tracks the funding readiness of one reporting period. Secured
// amounts and OverallStatus are mutated only by the orchestrator; lodgment
// happens outside this engine.
type BasCycle struct {
	ID            string      `json:"id" dynamodbav:"id"`
	OrgID         string      `json:"org_id" dynamodbav:"org_id"`
	PeriodStart   time.Time   `json:"period_start" dynamodbav:"period_start"`
	PeriodEnd     time.Time   `json:"period_end" dynamodbav:"period_end"`
	PaygwRequired int64       `json:"paygw_required" dynamodbav:"paygw_required"`
	PaygwSecured  int64       `json:"paygw_secured" dynamodbav:"paygw_secured"`
	GstRequired   int64       `json:"gst_required" dynamodbav:"gst_required"`
	GstSecured    int64       `json:"gst_secured" dynamodbav:"gst_secured"`
	OverallStatus CycleStatus `json:"overall_status" dynamodbav:"overall_status"`
	LodgedAt      *time.Time  `json:"lodged_at,omitempty" dynamodbav:"lodged_at,omitempty"`
}

// BasPaymentAttempt is one settlement attempt for a READY cycle. Mutated
// exclusively by the payment retry scheduler.
type BasPaymentAttempt struct {
	ID              string        `json:"id" dynamodbav:"id"`
	BasCycleID      string        `json:"bas_cycle_id" dynamodbav:"bas_cycle_id"`
	OrgID           string        `json:"org_id" dynamodbav:"org_id"`
	Status          AttemptStatus `json:"status" dynamodbav:"status"`
	AttemptCount    int           `json:"attempt_count" dynamodbav:"attempt_count"`
	FailureReason   string        `json:"failure_reason,omitempty" dynamodbav:"failure_reason,omitempty"`
	NextRunAt       *time.Time    `json:"next_run_at,omitempty" dynamodbav:"next_run_at,omitempty"`
	OfflineFallback bool          `json:"offline_fallback" dynamodbav:"offline_fallback"`
	CreatedAt       time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// AuditEntry is one append-only audit log record. Entries are hash-chained
// per org: Hash covers PrevHash plus the entry's canonical fields.
type AuditEntry struct {
	ID        string            `json:"id" dynamodbav:"id"`
	OrgID     string            `json:"org_id" dynamodbav:"org_id"`
	ActorID   string            `json:"actor_id" dynamodbav:"actor_id"`
	Action    string            `json:"action" dynamodbav:"action"`
	Metadata  map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at"`
	Hash      string            `json:"hash" dynamodbav:"hash"`
	PrevHash  string            `json:"prev_hash,omitempty" dynamodbav:"prev_hash,omitempty"`
}

// FormatCents renders an integer cents amount as a dollar string for alert
// messages, e.g. 123456 -> "$1234.56". No floats involved.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// PartnerCapability is the capability descriptor supplied by each banking
// partner adapter. The ledger consumes MaxWriteCents for cap enforcement.
type PartnerCapability struct {
	ID                  string `json:"id"`
	MaxReadTransactions int    `json:"max_read_transactions"`
	MaxWriteCents       int64  `json:"max_write_cents"`
}
