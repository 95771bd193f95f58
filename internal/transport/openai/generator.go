package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/metrics"
)

// GeneratorConfig holds the chat-completion provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Provider    string
	Logger      *zap.Logger
}

// Generator sends prompts to an OpenAI-compatible chat-completion endpoint.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	provider    string
	logger      *zap.Logger
}

var _ domain.Generator = (*Generator)(nil)

// NewGenerator creates a chat-completion generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Complete sends prompt as a single user message and returns the raw reply text.
// Failures are returned as *domain.GenerationError.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		kind := classifyFailure(ctx, err)
		g.record(string(kind), duration)
		return "", domain.NewGenerationError(kind, parseGenerationError(err))
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(text) == "" {
		g.record(string(domain.FailureEmpty), duration)
		return "", domain.NewGenerationError(domain.FailureEmpty, nil)
	}

	g.record("success", duration)
	g.logger.Debug("Completion received",
		zap.String("model", g.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", duration),
	)
	return text, nil
}

func (g *Generator) record(status string, d time.Duration) {
	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, status).Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.model).Observe(d.Seconds())
}

// classifyFailure separates deadline overruns from other transport and API errors.
func classifyFailure(ctx context.Context, err error) domain.GenerationFailureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FailureTimeout
	}
	return domain.FailureNetwork
}

func parseGenerationError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("completion API error %d", reqErr.HTTPStatusCode)
	}
	return err
}
