package investigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"plain text", "not json at all", "not json at all"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	raw := "```json\n" + `{
  "risk_summary": "High risk of rebrand fraud.",
  "key_reasons": ["name similar to netflix"],
  "recommended_bank_action": ["block"],
  "customer_guidance": ["contact your bank"],
  "cancellation_instructions": ["Step 1: open the app"],
  "confidence": "HIGH"
}` + "\n```"

	got := parseResult(raw)
	if got.ParseError != "" {
		t.Fatalf("unexpected parse error: %s", got.ParseError)
	}
	if got.RiskSummary != "High risk of rebrand fraud." {
		t.Errorf("RiskSummary = %q", got.RiskSummary)
	}
	if got.Confidence != "HIGH" {
		t.Errorf("Confidence = %q", got.Confidence)
	}
	if diff := cmp.Diff([]string{"name similar to netflix"}, got.KeyReasons); diff != "" {
		t.Errorf("KeyReasons mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResultInvalidJSONKeepsRawText(t *testing.T) {
	raw := "I think this merchant is suspicious but cannot be sure."

	got := parseResult(raw)
	if got.ParseError == "" {
		t.Fatal("expected a parse error marker")
	}
	if got.RawText != raw {
		t.Errorf("RawText = %q, want verbatim input", got.RawText)
	}
	if got.RiskSummary != "" || got.Confidence != "" {
		t.Error("structured fields should stay empty on parse failure")
	}
}
