package investigation

import (
	"encoding/json"
	"strings"

	"github.com/banking/merchant-firewall/internal/domain"
)

// stripFences removes a markdown code fence wrapped around LLM output,
// with or without a language tag. Bare text passes through unchanged.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	t = strings.TrimPrefix(t, "```")
	// Drop a language tag like "json" up to the first newline
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		first := strings.TrimSpace(t[:i])
		if first != "" && !strings.ContainsAny(first, "{}[]") {
			t = t[i+1:]
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// parseResult decodes the reasoning service's JSON verdict. Output that
// is not valid JSON is surfaced verbatim with an error marker instead of
// failing the investigation.
func parseResult(text string) domain.InvestigationResult {
	cleaned := stripFences(text)

	var result domain.InvestigationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return domain.InvestigationResult{
			RawText:    text,
			ParseError: "LLM output not valid JSON",
		}
	}
	return result
}
