package investigation

import (
	"encoding/json"
	"fmt"

	"github.com/banking/merchant-firewall/internal/domain"
)

const promptTemplate = `You are an expert Fraud Analyst Assistant in a bank for a recurring payment firewall.

STRICT:
- Only use the payload and the evidence bundle below.
- If something is unknown say "insufficient evidence".
- Output must be VALID JSON only (no markdown).

PAYLOAD:
%s

EVIDENCE:
%s

OUTPUT JSON:
{
  "risk_summary": "2 lines max",
  "key_reasons": ["...", "..."],
  "recommended_bank_action": ["..."],
  "customer_guidance": ["..."],
  "cancellation_instructions": ["Step 1...", "Step 2..."],
  "confidence": "LOW/MEDIUM/HIGH"
}`

// buildPrompt renders the structured investigation prompt. Marshalling the
// request and bundle cannot fail for the domain types involved; a failure
// degrades to an empty JSON object rather than aborting.
func buildPrompt(payload *Request, bundle *domain.InvestigationContext) string {
	return fmt.Sprintf(promptTemplate, toJSON(payload), toJSON(bundle))
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
