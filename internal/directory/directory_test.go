package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

type memSource struct {
	rows    []Row
	names   []string
	rowsErr error
}

func (m *memSource) MerchantRows(ctx context.Context) ([]Row, error) {
	return m.rows, m.rowsErr
}

func (m *memSource) CompanyNames(ctx context.Context) ([]string, error) {
	return m.names, nil
}

func TestLoadBuildsBothIndexes(t *testing.T) {
	source := &memSource{
		rows: []Row{
			{MerchantID: "mer_1", MerchantName: "Netflix Inc", TrustScore: 95, FinalDecision: "ALLOW"},
			{MerchantID: "mer_2", MerchantName: "Spotify AB", TrustScore: 88, FinalDecision: "ALLOW"},
		},
		names: []string{"Netflix Inc", "Spotify AB", "Adobe Systems"},
	}
	loader := NewLoader(source, logger.NewNop())

	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if snap.MerchantCount() != 2 {
		t.Errorf("merchant count = %d, want 2", snap.MerchantCount())
	}

	p, ok := snap.GetByID("mer_1")
	if !ok || p.MerchantName != "Netflix Inc" {
		t.Errorf("GetByID(mer_1) = %+v, %v", p, ok)
	}

	// Name lookup goes through normalization: suffix noise is ignored.
	p, ok = snap.GetByName("NETFLIX, Inc.")
	if !ok || p.MerchantID != "mer_1" {
		t.Errorf("GetByName = %+v, %v", p, ok)
	}

	if _, ok := snap.GetByID("mer_missing"); ok {
		t.Error("GetByID must miss for unknown IDs")
	}
	if _, ok := snap.GetByName(""); ok {
		t.Error("GetByName must miss for empty names")
	}
}

func TestLoadSkipsInvalidRows(t *testing.T) {
	source := &memSource{
		rows: []Row{
			{MerchantID: "", MerchantName: "No ID", TrustScore: 50},
			{MerchantID: "mer_bad", MerchantName: "Bad Trust", TrustScore: 120},
			{MerchantID: "mer_ok", MerchantName: "Fine", TrustScore: 60, FinalDecision: "ALLOW"},
			{MerchantID: "mer_ok", MerchantName: "Duplicate", TrustScore: 60},
		},
	}
	loader := NewLoader(source, logger.NewNop())

	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load must not abort on bad rows: %v", err)
	}
	if snap.MerchantCount() != 1 {
		t.Errorf("merchant count = %d, want 1 (bad rows skipped)", snap.MerchantCount())
	}
	if _, ok := snap.GetByID("mer_ok"); !ok {
		t.Error("valid row missing from snapshot")
	}
}

func TestLoadCorpusIsNormalizedAndDeduped(t *testing.T) {
	source := &memSource{
		names: []string{"Netflix Inc", "NETFLIX", "  ", "Pay Ltd", "Spotify"},
	}
	loader := NewLoader(source, logger.NewNop())

	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	corpus := snap.CompanyNames()
	// "Netflix Inc" and "NETFLIX" normalize to the same entry; blank and
	// stop-word-only names vanish.
	want := []string{"netflix", "spotify"}
	if len(corpus) != len(want) {
		t.Fatalf("corpus = %v, want %v", corpus, want)
	}
	for i := range want {
		if corpus[i] != want[i] {
			t.Errorf("corpus[%d] = %q, want %q", i, corpus[i], want[i])
		}
	}
}

func TestLoadUnreadableDatasetIsConfigurationError(t *testing.T) {
	source := &memSource{rowsErr: errors.New("no such file")}
	loader := NewLoader(source, logger.NewNop())

	_, err := loader.Load(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func TestHolderReloadSwapsAtomically(t *testing.T) {
	source := &memSource{
		rows: []Row{{MerchantID: "mer_1", MerchantName: "One", TrustScore: 50}},
	}
	holder, err := NewHolder(context.Background(), NewLoader(source, logger.NewNop()))
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	before := holder.Snapshot()
	if before.MerchantCount() != 1 {
		t.Fatalf("initial snapshot count = %d", before.MerchantCount())
	}

	source.rows = append(source.rows, Row{MerchantID: "mer_2", MerchantName: "Two", TrustScore: 50})
	if err := holder.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if holder.Snapshot().MerchantCount() != 2 {
		t.Errorf("reloaded snapshot count = %d, want 2", holder.Snapshot().MerchantCount())
	}
	// The old snapshot stays intact for readers still holding it.
	if before.MerchantCount() != 1 {
		t.Errorf("old snapshot mutated: count = %d", before.MerchantCount())
	}
}

func TestHolderReloadFailureKeepsOldSnapshot(t *testing.T) {
	source := &memSource{
		rows: []Row{{MerchantID: "mer_1", MerchantName: "One", TrustScore: 50}},
	}
	holder, err := NewHolder(context.Background(), NewLoader(source, logger.NewNop()))
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	source.rowsErr = errors.New("dataset gone")
	if err := holder.Reload(context.Background()); err == nil {
		t.Fatal("Reload should fail when the dataset is unreadable")
	}
	if holder.Snapshot().MerchantCount() != 1 {
		t.Error("failed reload must keep the previous snapshot published")
	}
}
