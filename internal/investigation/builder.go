// Package investigation builds evidence bundles and runs LLM-assisted
// fraud investigations for the human-in-the-loop review flow.
package investigation

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/banking/merchant-firewall/internal/directory"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/matching"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

const historyLimit = 10

// ProfileReader reads persisted merchant profiles from the ledger store
type ProfileReader interface {
	FindProfile(ctx context.Context, merchantID string) (*domain.MerchantProfile, error)
}

// HistoryReader reads recent transaction scores, newest first
type HistoryReader interface {
	RecentScores(ctx context.Context, merchantID string, limit int) ([]domain.TransactionScore, error)
}

// PolicyReader reads cancellation policies by merchant key
type PolicyReader interface {
	FindPolicy(ctx context.Context, merchantKey string) (*domain.MerchantPolicy, error)
}

// SnapshotProvider publishes the current directory snapshot
type SnapshotProvider interface {
	Snapshot() *directory.Snapshot
}

// ContextBuilder aggregates merchant profile, recent history and
// cancellation policy into a bounded evidence bundle. Every lookup may
// independently miss; a miss leaves the field nil rather than failing,
// so the bundle is usable as evidence even when incomplete.
type ContextBuilder struct {
	profiles  ProfileReader
	history   HistoryReader
	policies  PolicyReader
	snapshots SnapshotProvider
	log       *logger.Logger
}

// NewContextBuilder creates an evidence bundle builder
func NewContextBuilder(
	profiles ProfileReader,
	history HistoryReader,
	policies PolicyReader,
	snapshots SnapshotProvider,
	log *logger.Logger,
) *ContextBuilder {
	return &ContextBuilder{
		profiles:  profiles,
		history:   history,
		policies:  policies,
		snapshots: snapshots,
		log:       log.Named("context_builder"),
	}
}

// BuildContext runs the three lookups concurrently and assembles the
// bundle. Store failures degrade to missing fields; they never abort
// the investigation.
func (b *ContextBuilder) BuildContext(ctx context.Context, merchantID, merchantName string) *domain.InvestigationContext {
	bundle := &domain.InvestigationContext{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bundle.MerchantProfile = b.fetchProfile(gctx, merchantID)
		return nil
	})

	g.Go(func() error {
		// An empty ID would read across all merchants; that listing is
		// for operators, not evidence about this merchant.
		if merchantID == "" {
			return nil
		}
		scores, err := b.history.RecentScores(gctx, merchantID, historyLimit)
		if err != nil {
			b.log.Warn("history fetch failed", logger.ErrorField(err))
			return nil
		}
		bundle.RecentTransactions = scores
		return nil
	})

	g.Go(func() error {
		key := matching.PolicyKey(merchantName)
		if key == "" {
			return nil
		}
		policy, err := b.policies.FindPolicy(gctx, key)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				b.log.Warn("policy fetch failed", logger.ErrorField(err))
			}
			return nil
		}
		bundle.Policy = policy
		return nil
	})

	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	return bundle
}

// fetchProfile reads the ledger store first and falls back to the
// directory snapshot for merchants never persisted.
func (b *ContextBuilder) fetchProfile(ctx context.Context, merchantID string) *domain.MerchantProfile {
	if merchantID == "" {
		return nil
	}

	profile, err := b.profiles.FindProfile(ctx, merchantID)
	if err == nil {
		return profile
	}
	if !errors.Is(err, domain.ErrNotFound) {
		b.log.Warn("profile fetch failed", logger.ErrorField(err))
	}

	if snapshot, ok := b.snapshots.Snapshot().GetByID(merchantID); ok {
		return snapshot
	}
	return nil
}
