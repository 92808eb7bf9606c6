// Package policy serves merchant cancellation policies through a
// read-through cache.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

const (
	cachePrefix = "policy:"
	defaultTTL  = time.Hour
)

// Store is the persistent policy lookup behind the cache
type Store interface {
	FindPolicy(ctx context.Context, merchantKey string) (*domain.MerchantPolicy, error)
}

// Service resolves policies by merchant key. Cache hits skip the store;
// cache failures degrade to store reads so redis is never on the
// critical path.
type Service struct {
	store Store
	cache *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewService creates a policy service. cache may be nil to run without
// caching; a zero ttl falls back to one hour.
func NewService(store Store, cache *redis.Client, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log.Named("policy"),
	}
}

// FindPolicy returns the policy for a merchant key, consulting the cache
// first. A missing policy returns ErrNotFound.
func (s *Service) FindPolicy(ctx context.Context, merchantKey string) (*domain.MerchantPolicy, error) {
	if merchantKey == "" {
		return nil, domain.ErrNotFound
	}

	if cached := s.fromCache(ctx, merchantKey); cached != nil {
		return cached, nil
	}

	policy, err := s.store.FindPolicy(ctx, merchantKey)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, merchantKey, policy)
	return policy, nil
}

func (s *Service) fromCache(ctx context.Context, key string) *domain.MerchantPolicy {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("policy cache read failed", logger.ErrorField(err))
		}
		return nil
	}

	var policy domain.MerchantPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		s.log.Warn("policy cache entry corrupt", logger.ErrorField(err))
		return nil
	}
	return &policy
}

func (s *Service) toCache(ctx context.Context, key string, policy *domain.MerchantPolicy) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cachePrefix+key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("policy cache write failed", logger.ErrorField(err))
	}
}
