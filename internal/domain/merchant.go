package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Decision represents the outcome of scoring a transaction
type Decision string

const (
	DecisionAllow  Decision = "ALLOW"
	DecisionReview Decision = "REVIEW"
	DecisionBlock  Decision = "BLOCK"
)

// IsValid reports whether d is one of the known decisions
func (d Decision) IsValid() bool {
	return d == DecisionAllow || d == DecisionReview || d == DecisionBlock
}

// ParseDecision maps a raw dataset value onto a Decision.
// Unknown values fall back to REVIEW, the conservative default.
func ParseDecision(raw string) Decision {
	d := Decision(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.IsValid() {
		return DecisionReview
	}
	return d
}

// GuidanceFor returns the user guidance message for a decision.
// Total over all inputs; unknown decisions get the REVIEW guidance.
func GuidanceFor(d Decision) string {
	switch d {
	case DecisionAllow:
		return "Payment looks safe."
	case DecisionBlock:
		return "High risk. Recommended: BLOCK transaction."
	default:
		return "Suspicious. Recommended: step-up authentication."
	}
}

// MerchantProfile represents the identity and risk state of a known merchant.
// Profiles are built once at directory load time and are immutable afterwards.
type MerchantProfile struct {
	MerchantID            string    `json:"merchant_id"`
	MerchantName          string    `json:"merchant_name"`
	TrustScore            float64   `json:"trust_score"`             // 0-100
	RiskScore             float64   `json:"risk_score"`              // 0.0-1.0
	RenameSimilarityScore int       `json:"rename_similarity_score"` // 0-100
	PatternsDetected      []string  `json:"patterns_detected"`
	FinalDecision         Decision  `json:"final_decision"`
	ClosestCompanyMatch   string    `json:"closest_company_match"`
	MicrochargeRate       float64   `json:"microcharge_rate"`
	SpikeRatio            float64   `json:"spike_ratio"`
	AnomalyScore          float64   `json:"anomaly_score"`
	LastSeen              time.Time `json:"last_seen,omitempty"`
}

// Validate checks the directory invariants for a profile
func (p *MerchantProfile) Validate() error {
	if strings.TrimSpace(p.MerchantID) == "" {
		return fmt.Errorf("merchant_id is empty: %w", ErrValidation)
	}
	if p.TrustScore < 0 || p.TrustScore > 100 {
		return fmt.Errorf("trust_score %.1f out of range [0,100]: %w", p.TrustScore, ErrValidation)
	}
	if p.RenameSimilarityScore < 0 || p.RenameSimilarityScore > 100 {
		return fmt.Errorf("rename_similarity_score %d out of range [0,100]: %w", p.RenameSimilarityScore, ErrValidation)
	}
	return nil
}

// MerchantPolicy holds cancellation/remediation guidance for a merchant,
// keyed by the first token of the normalized merchant name.
type MerchantPolicy struct {
	MerchantKey       string   `json:"merchant_key"`
	MerchantName      string   `json:"merchant_name"`
	CancellationSteps []string `json:"cancellation_steps"`
	Notes             string   `json:"notes,omitempty"`
}

// ParsePatterns normalizes a raw patterns_detected value into a list of tags.
// Datasets deliver the field as a JSON list, a stringified list, or a plain
// comma-separated string; unparsable values normalize to an empty list.
func ParsePatterns(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	// Structured list first
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return cleanTags(tags)
	}

	// Stringified list, e.g. ['NEW_MERCHANT', 'MICRO_CHARGE']
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		return cleanTags(strings.Split(inner, ","))
	}

	// Comma-separated string
	if strings.Contains(raw, ",") {
		return cleanTags(strings.Split(raw, ","))
	}

	return cleanTags([]string{raw})
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.Trim(strings.TrimSpace(t), `"'`)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
