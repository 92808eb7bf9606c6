package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/directory"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/matching"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// SnapshotProvider publishes the current directory snapshot
type SnapshotProvider interface {
	Snapshot() *directory.Snapshot
}

// LedgerWriter appends transaction scores to the ledger
type LedgerWriter interface {
	InsertScore(ctx context.Context, score *domain.TransactionScore) error
}

// EventPublisher emits scored transactions to the event stream
type EventPublisher interface {
	PublishScore(ctx context.Context, score *domain.TransactionScore) error
}

// Engine is the core decision engine: it resolves a merchant identity from
// partial input and derives an ALLOW/REVIEW/BLOCK decision with evidence.
type Engine struct {
	snapshots SnapshotProvider
	ledger    LedgerWriter
	events    EventPublisher

	cfg *config.ScoringConfig
	log *logger.Logger

	// Metrics
	scoringCount int64
	avgLatencyMs float64
	latencyMu    sync.RWMutex
}

// NewEngine creates a new decision engine. events may be nil when no
// event stream is configured.
func NewEngine(
	snapshots SnapshotProvider,
	ledger LedgerWriter,
	events EventPublisher,
	cfg *config.ScoringConfig,
	log *logger.Logger,
) *Engine {
	return &Engine{
		snapshots: snapshots,
		ledger:    ledger,
		events:    events,
		cfg:       cfg,
		log:       log.Named("scoring_engine"),
	}
}

const reasonNoSignal = "No high-risk signal detected."

// Score resolves the merchant and derives a decision for one transaction.
// Resolution order: exact ID, exact normalized name, fuzzy corpus match.
// The score is appended to the ledger best-effort; a write failure is
// logged but never invalidates the decision already computed.
func (e *Engine) Score(ctx context.Context, merchantID, merchantName string, amount float64) (*domain.TransactionScore, error) {
	start := time.Now()
	e.log.ScoringStarted(merchantID, merchantName, amount)

	snap := e.snapshots.Snapshot()

	profile, path := e.resolve(snap, merchantID, merchantName)

	var score *domain.TransactionScore
	if profile != nil {
		score = e.scoreKnown(profile, amount)
	} else {
		score, path = e.scoreUnknown(snap, merchantID, merchantName, amount)
	}

	if !score.Decision.IsValid() || len(score.Reasons) == 0 {
		return nil, fmt.Errorf("%w: synthesized invalid score for merchant %q", domain.ErrScoring, merchantID)
	}

	// Persistence is decoupled from decisioning: the result is already
	// final when the ledger write happens.
	if err := e.ledger.InsertScore(ctx, score); err != nil {
		e.log.LedgerWriteFailed(score.MerchantID, err)
	}
	if e.events != nil {
		if err := e.events.PublishScore(ctx, score); err != nil {
			e.log.Warn("score event publish failed", logger.ErrorField(err))
		}
	}

	durationMs := time.Since(start).Milliseconds()
	e.recordLatency(durationMs)
	if durationMs > e.cfg.MaxScoringLatency.Milliseconds() {
		e.log.LatencyWarning("score_transaction", durationMs, e.cfg.MaxScoringLatency.Milliseconds())
	}
	e.log.ScoringCompleted(score.MerchantID, string(score.Decision), string(path), score.TrustScore, durationMs)

	return score, nil
}

// resolve finds a known profile by ID, then by normalized name
func (e *Engine) resolve(snap *directory.Snapshot, merchantID, merchantName string) (*domain.MerchantProfile, domain.ResolutionPath) {
	if profile, ok := snap.GetByID(merchantID); ok {
		return profile, domain.ResolvedByID
	}
	if merchantName != "" {
		if profile, ok := snap.GetByName(merchantName); ok {
			return profile, domain.ResolvedByName
		}
	}
	return nil, domain.Unresolved
}

// scoreKnown copies the profile's risk state verbatim into the score
func (e *Engine) scoreKnown(profile *domain.MerchantProfile, amount float64) *domain.TransactionScore {
	riskScore := profile.RiskScore
	patterns := append([]string(nil), profile.PatternsDetected...)

	return &domain.TransactionScore{
		ID:                    uuid.New(),
		MerchantID:            profile.MerchantID,
		MerchantName:          profile.MerchantName,
		Amount:                amount,
		Decision:              profile.FinalDecision,
		TrustScore:            profile.TrustScore,
		RiskScore:             &riskScore,
		RenameSimilarityScore: profile.RenameSimilarityScore,
		ClosestCompanyMatch:   profile.ClosestCompanyMatch,
		PatternsDetected:      patterns,
		Reasons:               e.buildReasons(profile.TrustScore, patterns, profile.RenameSimilarityScore, profile),
		UserGuidance:          domain.GuidanceFor(profile.FinalDecision),
		Timestamp:             time.Now().UTC(),
	}
}

// scoreUnknown handles the fuzzy-fallback path for unresolved merchants
func (e *Engine) scoreUnknown(snap *directory.Snapshot, merchantID, merchantName string, amount float64) (*domain.TransactionScore, domain.ResolutionPath) {
	normalized := matching.Normalize(merchantName)
	bestMatch, similarity := matching.FindBestMatch(normalized, snap.CompanyNames())

	path := domain.Unresolved
	if similarity > 0 {
		path = domain.ResolvedByFuzzy
	}
	if similarity >= e.cfg.ReviewSimilarity {
		e.log.SimilarityHit(merchantName, bestMatch, similarity)
	}

	var decision domain.Decision
	var trust float64
	switch {
	case similarity >= e.cfg.BlockSimilarity:
		decision, trust = domain.DecisionBlock, e.cfg.BlockTrustScore
	case similarity >= e.cfg.ReviewSimilarity:
		decision, trust = domain.DecisionReview, e.cfg.ReviewTrustScore
	default:
		decision, trust = domain.DecisionReview, e.cfg.DefaultTrustScore
	}

	patterns := []string{"NEW_MERCHANT"}
	if similarity >= e.cfg.ReviewSimilarity {
		patterns = append(patterns, "MERCHANT_REBRAND_PATTERN")
	}

	return &domain.TransactionScore{
		ID:                    uuid.New(),
		MerchantID:            merchantID,
		MerchantName:          merchantName,
		Amount:                amount,
		Decision:              decision,
		TrustScore:            trust,
		RenameSimilarityScore: similarity,
		ClosestCompanyMatch:   bestMatch,
		PatternsDetected:      patterns,
		Reasons:               e.buildReasons(trust, patterns, similarity, nil),
		UserGuidance:          domain.GuidanceFor(decision),
		Timestamp:             time.Now().UTC(),
	}, path
}

// buildReasons synthesizes human-readable evidence, capped at MaxReasons.
// profile is nil on the fuzzy-fallback path; the microcharge/spike/anomaly
// signals are scored on the known-profile path only.
func (e *Engine) buildReasons(trust float64, patterns []string, similarity int, profile *domain.MerchantProfile) []string {
	reasons := make([]string, 0, e.cfg.MaxReasons)
	add := func(r string) {
		if len(reasons) < e.cfg.MaxReasons {
			reasons = append(reasons, r)
		}
	}

	if trust < e.cfg.LowTrustThreshold {
		add(fmt.Sprintf("Low merchant trust score: %.1f/100", trust))
	}
	if len(patterns) > 0 {
		add("Patterns detected: " + strings.Join(patterns, ", "))
	}
	if similarity >= e.cfg.ReviewSimilarity {
		add(fmt.Sprintf("Merchant name similar to existing company (%d%%)", similarity))
	}
	if profile != nil {
		if profile.MicrochargeRate > e.cfg.MicrochargeThreshold {
			add(fmt.Sprintf("Elevated microcharge rate: %.2f", profile.MicrochargeRate))
		}
		if profile.SpikeRatio > e.cfg.SpikeThreshold {
			add(fmt.Sprintf("Transaction volume spike: %.1fx baseline", profile.SpikeRatio))
		}
		if profile.AnomalyScore > e.cfg.AnomalyThreshold {
			add(fmt.Sprintf("Behavioral anomaly score: %.2f", profile.AnomalyScore))
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonNoSignal)
	}
	return reasons
}

// recordLatency records scoring latency for metrics
func (e *Engine) recordLatency(durationMs int64) {
	e.latencyMu.Lock()
	defer e.latencyMu.Unlock()

	e.scoringCount++
	// Exponential moving average
	e.avgLatencyMs = e.avgLatencyMs*0.9 + float64(durationMs)*0.1
}

// AverageLatencyMs returns the average scoring latency
func (e *Engine) AverageLatencyMs() float64 {
	e.latencyMu.RLock()
	defer e.latencyMu.RUnlock()
	return e.avgLatencyMs
}

// ScoringCount returns total scorings performed
func (e *Engine) ScoringCount() int64 {
	e.latencyMu.RLock()
	defer e.latencyMu.RUnlock()
	return e.scoringCount
}
