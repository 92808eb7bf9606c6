package api

import (
	"time"

	"github.com/banking/merchant-firewall/internal/domain"
)

// ScoreRequest is the scoring endpoint payload. At least one of
// merchant_id and merchant_name must be present.
type ScoreRequest struct {
	MerchantID   string  `json:"merchant_id"`
	MerchantName string  `json:"merchant_name"`
	Amount       float64 `json:"amount"`
}

// ScoreResponse mirrors the ledger score document for API consumers
type ScoreResponse struct {
	TransactionID         string   `json:"transaction_id"`
	MerchantID            string   `json:"merchant_id"`
	MerchantName          string   `json:"merchant_name"`
	Decision              string   `json:"final_decision"`
	TrustScore            float64  `json:"merchant_trust_score"`
	RiskScore             *float64 `json:"risk_score,omitempty"`
	RenameSimilarityScore int      `json:"rename_similarity_score"`
	ClosestCompanyMatch   string   `json:"closest_company_match,omitempty"`
	PatternsDetected      []string `json:"patterns_detected"`
	Reasons               []string `json:"reasons"`
	UserGuidance          string   `json:"user_guidance"`
	Timestamp             string   `json:"timestamp"`
}

func toScoreResponse(score *domain.TransactionScore) *ScoreResponse {
	return &ScoreResponse{
		TransactionID:         score.ID.String(),
		MerchantID:            score.MerchantID,
		MerchantName:          score.MerchantName,
		Decision:              string(score.Decision),
		TrustScore:            score.TrustScore,
		RiskScore:             score.RiskScore,
		RenameSimilarityScore: score.RenameSimilarityScore,
		ClosestCompanyMatch:   score.ClosestCompanyMatch,
		PatternsDetected:      score.PatternsDetected,
		Reasons:               score.Reasons,
		UserGuidance:          score.UserGuidance,
		Timestamp:             score.Timestamp.Format(time.RFC3339),
	}
}

// InvestigateRequest is the investigation endpoint payload
type InvestigateRequest struct {
	MerchantID   string         `json:"merchant_id"`
	MerchantName string         `json:"merchant_name"`
	Amount       float64        `json:"amount"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// MerchantSummary is the compact merchant listing for the payment site
type MerchantSummary struct {
	MerchantID    string  `json:"merchant_id"`
	MerchantName  string  `json:"merchant_name"`
	TrustScore    float64 `json:"merchant_trust_score"`
	FinalDecision string  `json:"final_decision"`
}

// StatusResponse reports service health and runtime metrics
type StatusResponse struct {
	Status           string  `json:"status"`
	LedgerConnected  bool    `json:"ledger_connected"`
	MerchantsIndexed int     `json:"merchants_indexed"`
	CompanyCorpus    int     `json:"company_corpus"`
	ScoringCount     int64   `json:"scoring_count"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}
