package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePatterns(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"json list", `["NEW_MERCHANT","MICRO_CHARGE"]`, []string{"NEW_MERCHANT", "MICRO_CHARGE"}},
		{"stringified list", `['NEW_MERCHANT', 'MICRO_CHARGE']`, []string{"NEW_MERCHANT", "MICRO_CHARGE"}},
		{"comma string", "NEW_MERCHANT, MICRO_CHARGE", []string{"NEW_MERCHANT", "MICRO_CHARGE"}},
		{"single token", "NEW_MERCHANT", []string{"NEW_MERCHANT"}},
		{"empty", "", []string{}},
		{"whitespace", "   ", []string{}},
		{"empty list", "[]", []string{}},
		{"list with blanks", `[" ", "A"]`, []string{"A"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePatterns(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParsePatterns(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestParseDecision(t *testing.T) {
	cases := map[string]Decision{
		"ALLOW":   DecisionAllow,
		"block":   DecisionBlock,
		" REVIEW": DecisionReview,
		"":        DecisionReview,
		"MAYBE":   DecisionReview,
	}
	for in, want := range cases {
		if got := ParseDecision(in); got != want {
			t.Errorf("ParseDecision(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestGuidanceForIsTotal(t *testing.T) {
	for _, d := range []Decision{DecisionAllow, DecisionReview, DecisionBlock, Decision("GARBAGE"), Decision("")} {
		if GuidanceFor(d) == "" {
			t.Errorf("GuidanceFor(%q) returned empty guidance", d)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	valid := MerchantProfile{MerchantID: "mer_1", TrustScore: 50}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	bad := []MerchantProfile{
		{MerchantID: "", TrustScore: 50},
		{MerchantID: "mer_1", TrustScore: -1},
		{MerchantID: "mer_1", TrustScore: 101},
		{MerchantID: "mer_1", TrustScore: 50, RenameSimilarityScore: 101},
	}
	for i, p := range bad {
		err := p.Validate()
		if err == nil {
			t.Errorf("case %d: invalid profile accepted", i)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}
