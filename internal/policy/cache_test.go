package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

type fakeStore struct {
	policies map[string]*domain.MerchantPolicy
	calls    int
}

func (f *fakeStore) FindPolicy(_ context.Context, key string) (*domain.MerchantPolicy, error) {
	f.calls++
	if p, ok := f.policies[key]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func TestFindPolicyWithoutCache(t *testing.T) {
	store := &fakeStore{policies: map[string]*domain.MerchantPolicy{
		"netflix": {MerchantKey: "netflix", MerchantName: "Netflix"},
	}}
	svc := NewService(store, nil, 0, logger.NewNop())

	policy, err := svc.FindPolicy(context.Background(), "netflix")
	if err != nil {
		t.Fatalf("FindPolicy: %v", err)
	}
	if policy.MerchantName != "Netflix" {
		t.Errorf("policy = %+v", policy)
	}
	if store.calls != 1 {
		t.Errorf("store called %d times, want 1", store.calls)
	}
}

func TestFindPolicyMiss(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, 0, logger.NewNop())

	_, err := svc.FindPolicy(context.Background(), "unknown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindPolicyEmptyKey(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, 0, logger.NewNop())

	_, err := svc.FindPolicy(context.Background(), "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if store.calls != 0 {
		t.Error("empty key must not reach the store")
	}
}
