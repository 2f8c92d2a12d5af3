// Package llm talks to the Groq chat completions API to extract clauses and analyze contracts.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"complianceapi/internal/config"
	"complianceapi/internal/model"
)

// Operation names used for metrics, logs and errors.
const (
	OpExtractClauses  = "extract_clauses"
	OpAnalyzeContract = "analyze_contract"
)

// Client is the language model surface used by the services.
type Client interface {
	// ExtractClauses asks the model for the key clauses of a contract text.
	ExtractClauses(ctx context.Context, text string) ([]model.Clause, error)
	// AnalyzeContract asks the model for a compliance report, comparing against a similar contract when given.
	AnalyzeContract(ctx context.Context, contractText, similar string) (*model.Report, error)
}

// GroqClient implements Client over Groq's OpenAI-compatible endpoint.
// It is safe for concurrent use by multiple goroutines.
type GroqClient struct {
	client  openai.Client
	cfg     config.LLMConfig
	limiter *rate.Limiter
	metrics *Metrics
	logger  *zap.Logger
}

var _ Client = (*GroqClient)(nil)

// Option customizes a GroqClient.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	metrics    *Metrics
	logger     *zap.Logger
}

// WithHTTPClient sets the HTTP client used for API calls (e.g. one with an otelhttp transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewGroqClient builds a client from cfg.
func NewGroqClient(cfg config.LLMConfig, opts ...Option) *GroqClient {
	o := clientOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL()),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &GroqClient{
		client:  openai.NewClient(reqOpts...),
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		metrics: o.metrics,
		logger:  o.logger,
	}
}

// ExtractClauses implements Client.
func (c *GroqClient) ExtractClauses(ctx context.Context, text string) ([]model.Clause, error) {
	text = truncateRunes(text, c.cfg.MaxInputChars)
	content, err := c.complete(ctx, OpExtractClauses, clauseSystemPrompt, text, c.cfg.ClauseTemperature)
	if err != nil {
		return nil, err
	}
	clauses, err := parseClauses(content)
	if err != nil {
		return nil, &Error{Op: OpExtractClauses, Err: err, Content: content}
	}
	return clauses, nil
}

// AnalyzeContract implements Client.
func (c *GroqClient) AnalyzeContract(ctx context.Context, contractText, similar string) (*model.Report, error) {
	contractText = truncateRunes(contractText, c.cfg.MaxInputChars)
	similar = truncateRunes(similar, c.cfg.MaxInputChars/2)
	content, err := c.complete(ctx, OpAnalyzeContract, analysisSystemPrompt, analysisUserPrompt(contractText, similar), c.cfg.AnalysisTemperature)
	if err != nil {
		return nil, err
	}
	report, err := parseReport(content)
	if err != nil {
		return nil, &Error{Op: OpAnalyzeContract, Err: err, Content: content}
	}
	return report, nil
}

func (c *GroqClient) complete(ctx context.Context, op, system, user string, temperature float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &Error{Op: op, Err: err}
	}
	if c.cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observe(op, "error", elapsed)
		fields := []zap.Field{zap.String("op", op), zap.Error(err), zap.Int64("duration_ms", elapsed.Milliseconds())}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("status", apiErr.StatusCode))
		}
		c.logger.Error("llm_request_failed", fields...)
		return "", &Error{Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		c.metrics.observe(op, "empty", elapsed)
		return "", &Error{Op: op, Err: ErrEmptyResponse}
	}

	c.metrics.observe(op, "success", elapsed)
	c.logger.Info("llm_request",
		zap.String("op", op),
		zap.String("model", c.cfg.Model),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// truncateRunes cuts s to at most max runes. A non-positive max leaves s unchanged.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
