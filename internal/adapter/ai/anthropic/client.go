// Package anthropic implements domain.InferenceClient over the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/config"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

const (
	provider      = "anthropic"
	messagesPath  = "/v1/messages"
	maxBodyBytes  = 4 << 20
	logSnippetLen = 512
)

// Client calls the Messages API once per Complete; there is no retry.
type Client struct {
	apiKey  func() string
	baseURL string
	model   string
	version string
	hc      *http.Client
	tokens  *tokencount.Counter
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithAPIKeySource overrides where the API key is read from on each call.
func WithAPIKeySource(fn func() string) Option { return func(c *Client) { c.apiKey = fn } }

// WithTokenCounter overrides the token counter used for metrics.
func WithTokenCounter(tc *tokencount.Counter) Option { return func(c *Client) { c.tokens = tc } }

// New constructs a client from configuration.
func New(cfg config.Config, opts ...Option) *Client {
	timeout := cfg.AIHTTPTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	key := strings.TrimSpace(cfg.AnthropicAPIKey)
	c := &Client{
		apiKey:  func() string { return key },
		baseURL: strings.TrimRight(cfg.AnthropicBaseURL, "/"),
		model:   cfg.AnthropicModel,
		version: cfg.AnthropicVersion,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokencount.DefaultCounter,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type messagesRequest struct {
	Model     string               `json:"model"`
	MaxTokens int                  `json:"max_tokens"`
	System    string               `json:"system,omitempty"`
	Messages  []domain.ChatMessage `json:"messages"`
}

// Complete sends the system prompt and conversation and returns the text of
// the first content block, which may be empty.
func (c *Client) Complete(ctx domain.Context, systemPrompt string, messages []domain.ChatMessage, maxTokens int) (string, error) {
	op := domain.OperationFrom(ctx)
	lg := observability.LoggerFromContext(ctx)

	key := strings.TrimSpace(c.apiKey())
	if key == "" {
		lg.Error("anthropic API key missing", slog.String("provider", provider))
		return "", fmt.Errorf("op=anthropic.Complete: %w: ANTHROPIC_API_KEY not set", domain.ErrMisconfigured)
	}

	tracer := otel.Tracer("ai.anthropic")
	ctx, span := tracer.Start(ctx, "anthropic.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", c.model),
		attribute.String("ai.operation", op),
		attribute.Int("ai.max_tokens", maxTokens),
		attribute.Int("ai.messages", len(messages)),
	)

	b, err := json.Marshal(messagesRequest{Model: c.model, MaxTokens: maxTokens, System: systemPrompt, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("op=anthropic.Complete: %w: %v", domain.ErrInternal, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=anthropic.Complete: %w: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", c.version)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveAIRequest(provider, op, "transport_error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		lg.Error("anthropic request failed", slog.String("operation", op), slog.Any("error", err))
		return "", fmt.Errorf("op=anthropic.Complete: %w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		observability.ObserveAIRequest(provider, op, "read_error", time.Since(start))
		span.SetStatus(codes.Error, "read error")
		return "", fmt.Errorf("op=anthropic.Complete: %w: reading body: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ObserveAIRequest(provider, op, "http_"+statusClass(resp.StatusCode), time.Since(start))
		span.SetStatus(codes.Error, resp.Status)
		lg.Error("anthropic returned non-2xx",
			slog.String("operation", op),
			slog.Int("status", resp.StatusCode),
			slog.String("body", snippet(body, logSnippetLen)))
		return "", fmt.Errorf("op=anthropic.Complete: %w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		observability.ObserveAIRequest(provider, op, "bad_body", time.Since(start))
		span.SetStatus(codes.Error, "invalid response body")
		lg.Error("anthropic returned invalid JSON", slog.String("body", snippet(body, logSnippetLen)))
		return "", fmt.Errorf("op=anthropic.Complete: %w: invalid response body", domain.ErrUpstreamUnavailable)
	}
	observability.ObserveAIRequest(provider, op, "ok", time.Since(start))

	parsed := gjson.ParseBytes(body)
	text := parsed.Get("content.0.text").String()
	c.recordUsage(op, parsed, systemPrompt, messages, text)

	lg.Debug("anthropic completion received",
		slog.String("operation", op),
		slog.String("stop_reason", parsed.Get("stop_reason").String()),
		slog.Int("text_len", len(text)),
		slog.Duration("elapsed", time.Since(start)))
	return text, nil
}

// recordUsage prefers the usage block the API reports and falls back to local
// counting.
func (c *Client) recordUsage(op string, parsed gjson.Result, system string, messages []domain.ChatMessage, text string) {
	in := parsed.Get("usage.input_tokens")
	out := parsed.Get("usage.output_tokens")
	if in.Exists() && out.Exists() {
		observability.ObserveTokens(op, int(in.Int()), int(out.Int()))
		return
	}
	if c.tokens == nil {
		return
	}
	u := c.tokens.Usage(system, messages, text, c.model)
	observability.ObserveTokens(op, u.PromptTokens, u.CompletionTokens)
}

func statusClass(code int) string {
	switch {
	case code == http.StatusTooManyRequests:
		return "429"
	case code >= 500:
		return "5xx"
	default:
		return "4xx"
	}
}

func snippet(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
