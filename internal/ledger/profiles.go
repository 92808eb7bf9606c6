package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/banking/merchant-firewall/internal/domain"
)

// FindProfile returns the stored profile for a merchant, or ErrNotFound.
// The profiles table is maintained by the dataset pipeline; the firewall
// only reads it.
func (s *Store) FindProfile(ctx context.Context, merchantID string) (*domain.MerchantProfile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM merchant_profiles WHERE merchant_id = $1`, merchantID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query profile: %v", domain.ErrDatabase, err)
	}

	var profile domain.MerchantProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", domain.ErrDatabase, err)
	}
	return &profile, nil
}

// UpsertProfile stores or replaces a merchant profile document
func (s *Store) UpsertProfile(ctx context.Context, profile *domain.MerchantProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: encode profile: %v", domain.ErrDatabase, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO merchant_profiles (merchant_id, doc, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (merchant_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		profile.MerchantID, doc, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %v", domain.ErrDatabase, err)
	}
	return nil
}

// FindPolicy returns the cancellation policy for a merchant key, or ErrNotFound
func (s *Store) FindPolicy(ctx context.Context, merchantKey string) (*domain.MerchantPolicy, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM merchant_policies WHERE merchant_key = $1`, merchantKey,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query policy: %v", domain.ErrDatabase, err)
	}

	var policy domain.MerchantPolicy
	if err := json.Unmarshal(doc, &policy); err != nil {
		return nil, fmt.Errorf("%w: decode policy: %v", domain.ErrDatabase, err)
	}
	return &policy, nil
}

// InsertCaseLog appends one investigation case log
func (s *Store) InsertCaseLog(ctx context.Context, cl *domain.CaseLog) error {
	doc, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("%w: encode case log: %v", domain.ErrDatabase, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO case_logs (id, merchant_id, doc, created_at) VALUES ($1, $2, $3, $4)`,
		cl.ID, cl.MerchantID, doc, cl.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: insert case log: %v", domain.ErrDatabase, err)
	}
	return nil
}
