package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionScore represents the outcome of scoring one transaction.
// Scores are append-only: once written to the ledger they are never
// mutated or deleted by this service.
type TransactionScore struct {
	ID                    uuid.UUID `json:"id"`
	MerchantID            string    `json:"merchant_id"`
	MerchantName          string    `json:"merchant_name"`
	Amount                float64   `json:"amount"`
	Decision              Decision  `json:"decision"`
	TrustScore            float64   `json:"trust_score"`
	RiskScore             *float64  `json:"risk_score,omitempty"`
	RenameSimilarityScore int       `json:"rename_similarity_score"`
	ClosestCompanyMatch   string    `json:"closest_company_match"`
	PatternsDetected      []string  `json:"patterns_detected"`
	Reasons               []string  `json:"reasons"` // 1-5 entries, never empty
	UserGuidance          string    `json:"user_guidance"`
	Timestamp             time.Time `json:"timestamp"`
}

// ResolutionPath describes how a merchant identity was resolved during scoring
type ResolutionPath string

const (
	ResolvedByID    ResolutionPath = "EXACT_ID"
	ResolvedByName  ResolutionPath = "EXACT_NAME"
	ResolvedByFuzzy ResolutionPath = "FUZZY"
	Unresolved      ResolutionPath = "UNRESOLVED"
)

// InvestigationContext aggregates the evidence bundle handed to the
// reasoning service. Any field may be nil/empty; the bundle is inherently
// partial and still usable as evidence.
type InvestigationContext struct {
	MerchantProfile    *MerchantProfile   `json:"merchant_profile"`
	RecentTransactions []TransactionScore `json:"recent_transactions"`
	Policy             *MerchantPolicy    `json:"policy"`
}

// InvestigationResult is the structured verdict returned by the reasoning
// service for a human-in-the-loop investigation.
type InvestigationResult struct {
	RiskSummary              string   `json:"risk_summary"`
	KeyReasons               []string `json:"key_reasons"`
	RecommendedBankAction    []string `json:"recommended_bank_action"`
	CustomerGuidance         []string `json:"customer_guidance"`
	CancellationInstructions []string `json:"cancellation_instructions"`
	Confidence               string   `json:"confidence"`

	// Set when the reasoning service returned text that could not be
	// parsed as JSON. RawText carries the unparsed output verbatim.
	RawText    string `json:"raw_text,omitempty"`
	ParseError string `json:"error,omitempty"`
}

// CaseLog records one investigation run for audit purposes
type CaseLog struct {
	ID           uuid.UUID            `json:"id"`
	MerchantID   string               `json:"merchant_id"`
	MerchantName string               `json:"merchant_name"`
	Payload      map[string]any       `json:"payload"`
	Context      InvestigationContext `json:"context"`
	Result       InvestigationResult  `json:"result"`
	Timestamp    time.Time            `json:"timestamp"`
}
