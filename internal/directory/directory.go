package directory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/matching"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// Snapshot is an immutable in-memory index of known merchant profiles plus
// the normalized company-name corpus. A snapshot is built once and shared
// read-only; reloads swap the whole snapshot atomically via Holder.
type Snapshot struct {
	byID             map[string]*domain.MerchantProfile
	byNormalizedName map[string]string // normalized name -> merchant_id
	companyNames     []string          // normalized corpus, load order preserved
}

// GetByID returns the profile for a merchant ID. O(1).
func (s *Snapshot) GetByID(id string) (*domain.MerchantProfile, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// GetByName normalizes the display name and resolves it through the
// name index. O(1) after normalization.
func (s *Snapshot) GetByName(name string) (*domain.MerchantProfile, bool) {
	normalized := matching.Normalize(name)
	if normalized == "" {
		return nil, false
	}
	id, ok := s.byNormalizedName[normalized]
	if !ok {
		return nil, false
	}
	return s.byID[id], true
}

// CompanyNames returns the normalized company-name corpus. Callers must
// treat the slice as read-only.
func (s *Snapshot) CompanyNames() []string {
	return s.companyNames
}

// MerchantCount returns the number of indexed profiles
func (s *Snapshot) MerchantCount() int {
	return len(s.byID)
}

// Profiles returns all indexed profiles in unspecified order. Callers
// must treat the profiles as read-only.
func (s *Snapshot) Profiles() []*domain.MerchantProfile {
	out := make([]*domain.MerchantProfile, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out
}

// Row is one merchant record as delivered by the dataset collaborator.
// PatternsDetected arrives raw and is normalized during load.
type Row struct {
	MerchantID            string
	MerchantName          string
	TrustScore            float64
	RiskScore             float64
	RenameSimilarityScore int
	PatternsDetected      string
	FinalDecision         string
	ClosestCompanyMatch   string
	MicrochargeRate       float64
	SpikeRatio            float64
	AnomalyScore          float64
}

// RowSource produces merchant rows and company names from an external
// dataset. Implementations own all parsing mechanics.
type RowSource interface {
	MerchantRows(ctx context.Context) ([]Row, error)
	CompanyNames(ctx context.Context) ([]string, error)
}

// Loader builds directory snapshots from a row source
type Loader struct {
	source RowSource
	log    *logger.Logger
}

// NewLoader creates a directory loader
func NewLoader(source RowSource, log *logger.Logger) *Loader {
	return &Loader{source: source, log: log.Named("directory")}
}

// Load builds a fresh snapshot in a single pass over the dataset. Rows
// failing validation are logged and skipped; only a completely unreadable
// dataset aborts the load.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	rows, err := l.source.MerchantRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: merchant dataset unreadable: %v", domain.ErrConfiguration, err)
	}

	snap := &Snapshot{
		byID:             make(map[string]*domain.MerchantProfile, len(rows)),
		byNormalizedName: make(map[string]string, len(rows)),
	}

	skipped := 0
	for _, row := range rows {
		profile := &domain.MerchantProfile{
			MerchantID:            row.MerchantID,
			MerchantName:          row.MerchantName,
			TrustScore:            row.TrustScore,
			RiskScore:             row.RiskScore,
			RenameSimilarityScore: row.RenameSimilarityScore,
			PatternsDetected:      domain.ParsePatterns(row.PatternsDetected),
			FinalDecision:         domain.ParseDecision(row.FinalDecision),
			ClosestCompanyMatch:   row.ClosestCompanyMatch,
			MicrochargeRate:       row.MicrochargeRate,
			SpikeRatio:            row.SpikeRatio,
			AnomalyScore:          row.AnomalyScore,
		}
		if err := profile.Validate(); err != nil {
			skipped++
			l.log.RowSkipped(row.MerchantID, err)
			continue
		}
		if _, dup := snap.byID[profile.MerchantID]; dup {
			skipped++
			l.log.RowSkipped(row.MerchantID, fmt.Errorf("duplicate merchant_id: %w", domain.ErrValidation))
			continue
		}

		snap.byID[profile.MerchantID] = profile
		if normalized := matching.Normalize(profile.MerchantName); normalized != "" {
			snap.byNormalizedName[normalized] = profile.MerchantID
		}
	}

	names, err := l.source.CompanyNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: company corpus unreadable: %v", domain.ErrConfiguration, err)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := matching.Normalize(name)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		snap.companyNames = append(snap.companyNames, normalized)
	}

	l.log.DirectoryLoaded(len(snap.byID), len(snap.companyNames), skipped)
	return snap, nil
}

// Holder publishes the current snapshot to concurrent readers and swaps
// it atomically on reload. In-flight requests see either the old or the
// new snapshot entirely, never a mix.
type Holder struct {
	loader *Loader
	snap   atomic.Pointer[Snapshot]
}

// NewHolder loads the initial snapshot and wraps it for atomic swapping
func NewHolder(ctx context.Context, loader *Loader) (*Holder, error) {
	h := &Holder{loader: loader}
	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	h.snap.Store(snap)
	return h, nil
}

// Snapshot returns the current snapshot. Safe for unbounded concurrent callers.
func (h *Holder) Snapshot() *Snapshot {
	return h.snap.Load()
}

// Reload rebuilds the snapshot from the dataset and swaps it in. On
// failure the previous snapshot stays published.
func (h *Holder) Reload(ctx context.Context) error {
	snap, err := h.loader.Load(ctx)
	if err != nil {
		return err
	}
	h.snap.Store(snap)
	return nil
}
