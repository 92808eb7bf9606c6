// Package api exposes the firewall's HTTP surface.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/banking/merchant-firewall/internal/directory"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/investigation"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
	"github.com/banking/merchant-firewall/internal/scoring"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// HistoryReader reads scored transactions back out of the ledger
type HistoryReader interface {
	RecentScores(ctx context.Context, merchantID string, limit int) ([]domain.TransactionScore, error)
	LatestScore(ctx context.Context, merchantID string) (*domain.TransactionScore, error)
}

// ProfileWriter stores operator corrections to merchant profiles
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, profile *domain.MerchantProfile) error
}

// Pinger probes the ledger store for the status endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handlers and their collaborators
type Handlers struct {
	engine       *scoring.Engine
	investigator *investigation.Service
	holder       *directory.Holder
	history      HistoryReader
	profiles     ProfileWriter
	pinger       Pinger
	log          *logger.Logger
}

// NewHandlers creates the HTTP handler set. investigator and pinger may
// be nil when the reasoning service or ledger are not configured.
func NewHandlers(
	engine *scoring.Engine,
	investigator *investigation.Service,
	holder *directory.Holder,
	history HistoryReader,
	profiles ProfileWriter,
	pinger Pinger,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		engine:       engine,
		investigator: investigator,
		holder:       holder,
		history:      history,
		profiles:     profiles,
		pinger:       pinger,
		log:          log.Named("api"),
	}
}

// ScoreTransaction handles POST /api/v1/score-transaction
func (h *Handlers) ScoreTransaction(c echo.Context) error {
	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.MerchantID == "" && req.MerchantName == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "merchant_id or merchant_name is required"})
	}

	score, err := h.engine.Score(c.Request().Context(), req.MerchantID, req.MerchantName, req.Amount)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toScoreResponse(score))
}

// InvestigateTransaction handles POST /api/v1/investigate-transaction
func (h *Handlers) InvestigateTransaction(c echo.Context) error {
	if h.investigator == nil || !h.investigator.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "investigation service not configured"})
	}

	var req InvestigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.MerchantID == "" && req.MerchantName == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "merchant_id or merchant_name is required"})
	}

	result, err := h.investigator.Investigate(c.Request().Context(), &investigation.Request{
		MerchantID:   req.MerchantID,
		MerchantName: req.MerchantName,
		Amount:       req.Amount,
		Extra:        req.Extra,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetMerchant handles GET /api/v1/merchants/:id
func (h *Handlers) GetMerchant(c echo.Context) error {
	id := c.Param("id")
	profile, ok := h.holder.Snapshot().GetByID(id)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "merchant not found"})
	}
	return c.JSON(http.StatusOK, profile)
}

// LatestScoreForMerchant handles GET /api/v1/merchants/:id/latest-score
func (h *Handlers) LatestScoreForMerchant(c echo.Context) error {
	score, err := h.history.LatestScore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toScoreResponse(score))
}

// UpsertMerchant handles PUT /api/v1/admin/merchants/:id
func (h *Handlers) UpsertMerchant(c echo.Context) error {
	var profile domain.MerchantProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	profile.MerchantID = c.Param("id")
	if err := profile.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.profiles.UpsertProfile(c.Request().Context(), &profile); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, &profile)
}

// RecentTransactions handles GET /api/v1/recent-transactions
func (h *Handlers) RecentTransactions(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 50"})
		}
		limit = n
	}

	scores, err := h.history.RecentScores(c.Request().Context(), c.QueryParam("merchant_id"), limit)
	if err != nil {
		return h.mapError(c, err)
	}

	out := make([]*ScoreResponse, 0, len(scores))
	for i := range scores {
		out = append(out, toScoreResponse(&scores[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// PaymentSiteMerchants handles GET /api/v1/payment-site/merchants
func (h *Handlers) PaymentSiteMerchants(c echo.Context) error {
	profiles := h.holder.Snapshot().Profiles()
	out := make([]MerchantSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, MerchantSummary{
			MerchantID:    p.MerchantID,
			MerchantName:  p.MerchantName,
			TrustScore:    p.TrustScore,
			FinalDecision: string(p.FinalDecision),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ReloadDirectory handles POST /api/v1/admin/reload-directory
func (h *Handlers) ReloadDirectory(c echo.Context) error {
	if err := h.holder.Reload(c.Request().Context()); err != nil {
		return h.mapError(c, err)
	}
	snap := h.holder.Snapshot()
	return c.JSON(http.StatusOK, map[string]int{
		"merchants_indexed": snap.MerchantCount(),
		"company_corpus":    len(snap.CompanyNames()),
	})
}

// Status handles GET /api/v1/status
func (h *Handlers) Status(c echo.Context) error {
	snap := h.holder.Snapshot()

	ledgerOK := false
	if h.pinger != nil {
		ledgerOK = h.pinger.Ping(c.Request().Context()) == nil
	}

	status := "ok"
	if !ledgerOK {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, StatusResponse{
		Status:           status,
		LedgerConnected:  ledgerOK,
		MerchantsIndexed: snap.MerchantCount(),
		CompanyCorpus:    len(snap.CompanyNames()),
		ScoringCount:     h.engine.ScoringCount(),
		AvgLatencyMs:     h.engine.AverageLatencyMs(),
	})
}

// Health handles GET /health
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// mapError translates domain sentinel errors to HTTP responses
func (h *Handlers) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLLM):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "investigation service unavailable"})
	default:
		h.log.Error("request failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
