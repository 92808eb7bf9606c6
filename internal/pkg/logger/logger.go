package logger

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with firewall-specific functionality
type Logger struct {
	*zap.Logger
	serviceName string
}

// ContextKey for request context values
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	MerchantKey  ContextKey = "merchant_id"
	TraceIDKey   ContextKey = "trace_id"
	CaseIDKey    ContextKey = "case_id"
)

// New creates a new logger instance
func New(serviceName, environment string, debug bool) (*Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Add service metadata
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     environment,
		"pid":     os.Getpid(),
	}

	zapLogger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger:      zapLogger,
		serviceName: serviceName,
	}, nil
}

// Named returns a named sub-logger
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		Logger:      l.Logger.Named(name),
		serviceName: l.serviceName,
	}
}

// WithContext returns a logger with context values
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := []zap.Field{}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if merchantID, ok := ctx.Value(MerchantKey).(string); ok && merchantID != "" {
		fields = append(fields, zap.String("merchant_id", merchantID))
	}
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if caseID, ok := ctx.Value(CaseIDKey).(string); ok && caseID != "" {
		fields = append(fields, zap.String("case_id", caseID))
	}

	return &Logger{
		Logger:      l.With(fields...),
		serviceName: l.serviceName,
	}
}

// WithMerchant returns a logger with merchant context
func (l *Logger) WithMerchant(merchantID, merchantName string) *Logger {
	return &Logger{
		Logger: l.With(
			zap.String("merchant_id", merchantID),
			zap.String("merchant_name", merchantName),
		),
		serviceName: l.serviceName,
	}
}

// ScoringStarted logs the start of a scoring operation
func (l *Logger) ScoringStarted(merchantID, merchantName string, amount float64) {
	l.Info("scoring started",
		zap.String("merchant_id", merchantID),
		zap.String("merchant_name", merchantName),
		zap.Float64("amount", amount),
	)
}

// ScoringCompleted logs the completion of a scoring operation
func (l *Logger) ScoringCompleted(merchantID, decision, path string, trustScore float64, durationMs int64) {
	l.Info("scoring completed",
		zap.String("merchant_id", merchantID),
		zap.String("decision", decision),
		zap.String("resolution_path", path),
		zap.Float64("trust_score", trustScore),
		zap.Int64("duration_ms", durationMs),
	)
}

// SimilarityHit logs a high-similarity fuzzy match against the corpus
func (l *Logger) SimilarityHit(merchantName, matchedName string, score int) {
	l.Info("high name similarity detected",
		zap.String("merchant_name", merchantName),
		zap.String("matched_name", matchedName),
		zap.Int("similarity_score", score),
	)
}

// LedgerWriteFailed logs a best-effort ledger write that did not land
func (l *Logger) LedgerWriteFailed(merchantID string, err error) {
	l.Warn("ledger write failed",
		zap.String("merchant_id", merchantID),
		zap.Error(err),
	)
}

// DirectoryLoaded logs a completed directory snapshot build
func (l *Logger) DirectoryLoaded(merchants, companies, skipped int) {
	l.Info("merchant directory loaded",
		zap.Int("merchants", merchants),
		zap.Int("companies", companies),
		zap.Int("rows_skipped", skipped),
	)
}

// RowSkipped logs a dataset row dropped during directory construction
func (l *Logger) RowSkipped(merchantID string, err error) {
	l.Warn("dataset row skipped",
		zap.String("merchant_id", merchantID),
		zap.Error(err),
	)
}

// InvestigationCompleted logs an investigation run
func (l *Logger) InvestigationCompleted(caseID, merchantID, confidence string, durationMs int64) {
	l.Info("investigation completed",
		zap.String("case_id", caseID),
		zap.String("merchant_id", merchantID),
		zap.String("confidence", confidence),
		zap.Int64("duration_ms", durationMs),
	)
}

// LLMCallFailed logs a reasoning service failure
func (l *Logger) LLMCallFailed(caseID string, err error) {
	l.Warn("llm call failed",
		zap.String("case_id", caseID),
		zap.Error(err),
	)
}

// ScoreEventPublished logs a score event sent to the event stream
func (l *Logger) ScoreEventPublished(merchantID string, partition int32, offset int64) {
	l.Debug("score event published",
		zap.String("merchant_id", merchantID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
}

// LatencyWarning logs when an operation exceeds its latency budget
func (l *Logger) LatencyWarning(operation string, durationMs, thresholdMs int64) {
	l.Warn("latency threshold exceeded",
		zap.String("operation", operation),
		zap.Int64("duration_ms", durationMs),
		zap.Int64("threshold_ms", thresholdMs),
	)
}

// Helper field functions

// ErrorField creates an error field
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

// DurationField creates a duration field
func DurationField(name string, d time.Duration) zap.Field {
	return zap.Duration(name, d)
}

// StringField creates a string field
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField creates an int field
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Float64Field creates a float64 field
func Float64Field(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// NewNop returns a no-op logger for tests
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), serviceName: "test"}
}
