package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/banking/merchant-firewall/internal/domain"
)

// InsertScore appends one transaction score to the ledger. The write is a
// single-document append: a cancelled or failed insert leaves no partial
// state behind.
func (s *Store) InsertScore(ctx context.Context, score *domain.TransactionScore) error {
	doc, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("%w: encode score: %v", domain.ErrDatabase, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO transaction_scores (id, merchant_id, doc, created_at) VALUES ($1, $2, $3, $4)`,
		score.ID, score.MerchantID, doc, score.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: insert score: %v", domain.ErrDatabase, err)
	}
	return nil
}

// RecentScores returns up to limit scores newest-first. An empty merchantID
// returns scores across all merchants.
func (s *Store) RecentScores(ctx context.Context, merchantID string, limit int) ([]domain.TransactionScore, error) {
	if limit <= 0 {
		limit = 10
	}

	var (
		rows pgx.Rows
		err  error
	)
	if merchantID == "" {
		rows, err = s.pool.Query(ctx,
			`SELECT doc FROM transaction_scores ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT doc FROM transaction_scores WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT $2`,
			merchantID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query scores: %v", domain.ErrDatabase, err)
	}
	defer rows.Close()

	var scores []domain.TransactionScore
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan score: %v", domain.ErrDatabase, err)
		}
		var score domain.TransactionScore
		if err := json.Unmarshal(doc, &score); err != nil {
			return nil, fmt.Errorf("%w: decode score: %v", domain.ErrDatabase, err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// LatestScore returns the most recent score for a merchant
func (s *Store) LatestScore(ctx context.Context, merchantID string) (*domain.TransactionScore, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM transaction_scores WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT 1`,
		merchantID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query latest score: %v", domain.ErrDatabase, err)
	}

	var score domain.TransactionScore
	if err := json.Unmarshal(doc, &score); err != nil {
		return nil, fmt.Errorf("%w: decode score: %v", domain.ErrDatabase, err)
	}
	return &score, nil
}
