// Package llm implements the client for the external reasoning service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// Client calls a Gemini-style generateContent endpoint. Calls run behind a
// circuit breaker so a degraded reasoning service cannot pile up requests.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cfg        *config.LLMConfig
	log        *logger.Logger
}

// NewClient creates a reasoning service client. A client without an API key
// is valid but returns ErrLLM on every call.
func NewClient(cfg *config.LLMConfig, log *logger.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFail
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		breaker:    breaker,
		cfg:        cfg,
		log:        log.Named("llm"),
	}
}

// Enabled reports whether the reasoning service is configured
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends a prompt to the reasoning service and returns the raw
// response text. All failures are wrapped as ErrLLM.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("%w: reasoning service not configured", domain.ErrLLM)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLM, err)
	}
	return out.(string), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.Endpoint, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reasoning service returned %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %v", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("reasoning service returned no candidates")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
