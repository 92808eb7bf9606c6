package investigation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// Request carries the transaction details a reviewer submits for
// investigation. Extra carries any additional payload fields verbatim so
// the reasoning service sees what the reviewer saw.
type Request struct {
	MerchantID   string         `json:"merchant_id"`
	MerchantName string         `json:"merchant_name"`
	Amount       float64        `json:"amount"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Generator produces text from a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

// CaseWriter persists investigation case logs
type CaseWriter interface {
	InsertCaseLog(ctx context.Context, entry *domain.CaseLog) error
}

// Service runs LLM-assisted investigations over an evidence bundle
type Service struct {
	builder *ContextBuilder
	llm     Generator
	cases   CaseWriter
	log     *logger.Logger
}

// NewService creates an investigation service. cases may be nil, in which
// case no case log is persisted.
func NewService(builder *ContextBuilder, llm Generator, cases CaseWriter, log *logger.Logger) *Service {
	return &Service{
		builder: builder,
		llm:     llm,
		cases:   cases,
		log:     log.Named("investigation"),
	}
}

// Enabled reports whether the backing reasoning service is configured
func (s *Service) Enabled() bool {
	return s.llm.Enabled()
}

// Investigate builds the evidence bundle, runs the reasoning service and
// records a case log. The case log write is best-effort: a store failure
// is logged and the verdict still returned.
func (s *Service) Investigate(ctx context.Context, req *Request) (*domain.InvestigationResult, error) {
	start := time.Now()
	caseID := uuid.New()

	bundle := s.builder.BuildContext(ctx, req.MerchantID, req.MerchantName)
	prompt := buildPrompt(req, bundle)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.log.LLMCallFailed(caseID.String(), err)
		return nil, err
	}

	result := parseResult(raw)

	s.writeCaseLog(ctx, caseID, req, bundle, &result)
	s.log.InvestigationCompleted(caseID.String(), req.MerchantID, result.Confidence, time.Since(start).Milliseconds())

	return &result, nil
}

func (s *Service) writeCaseLog(ctx context.Context, caseID uuid.UUID, req *Request, bundle *domain.InvestigationContext, result *domain.InvestigationResult) {
	if s.cases == nil {
		return
	}

	payload := map[string]any{
		"merchant_id":   req.MerchantID,
		"merchant_name": req.MerchantName,
		"amount":        req.Amount,
	}
	for k, v := range req.Extra {
		payload[k] = v
	}

	entry := &domain.CaseLog{
		ID:           caseID,
		MerchantID:   req.MerchantID,
		MerchantName: req.MerchantName,
		Payload:      payload,
		Context:      *bundle,
		Result:       *result,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.cases.InsertCaseLog(ctx, entry); err != nil {
		s.log.LedgerWriteFailed(req.MerchantID, err)
	}
}
