// Package embedding wraps the embedding provider with chunking, dimension
// checks and logging.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

// DefaultMaxAPIBatchSize is the largest batch sent in a single provider request.
const DefaultMaxAPIBatchSize = 256

// DefaultConcurrency is the number of chunk requests in flight at once.
const DefaultConcurrency = 4

// Options tune an InstrumentedEmbedder.
type Options struct {
	// BatchSize caps texts per provider request; zero means DefaultMaxAPIBatchSize.
	BatchSize int
	// Dimensions, when positive, is the vector length every result must have.
	Dimensions int
	// Concurrency caps chunk requests in flight; zero means DefaultConcurrency.
	Concurrency int
}

// InstrumentedEmbedder wraps Embedder with chunked batching, dimension checks and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	opts     Options
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	opts Options, logger *zap.Logger,
) *InstrumentedEmbedder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultMaxAPIBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		opts:     opts,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and validates the vector.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", providerError(err))
	}
	if err := p.checkDim(result.Embedding); err != nil {
		return domain.EmbeddingResult{}, err
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// BatchEmbed splits texts into provider-sized chunks and delegates to inner.
func (p *InstrumentedEmbedder) BatchEmbed(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()

	result, err := p.embedChunked(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	p.logger.Debug("Batch embedding completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// embedChunked embeds chunks concurrently. Results are reassembled in input
// order; the first failing chunk cancels the rest.
func (p *InstrumentedEmbedder) embedChunked(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	nChunks := (len(texts) + p.opts.BatchSize - 1) / p.opts.BatchSize
	chunks := make([]domain.BatchEmbeddingResult, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i := range nChunks {
		offset := i * p.opts.BatchSize
		chunk := texts[offset:min(offset+p.opts.BatchSize, len(texts))]

		g.Go(func() error {
			res, err := domain.EmbedAll(gctx, p.inner, chunk)
			if err != nil {
				p.logger.Error("Batch embedding request failed",
					zap.String("provider", p.provider),
					zap.String("model", p.model),
					zap.Int("chunk_offset", offset),
					zap.Int("chunk_size", len(chunk)),
					zap.Error(err),
				)
				return fmt.Errorf("batch embed (chunk %d): %w", offset, providerError(err))
			}
			for _, vec := range res.Embeddings {
				if err := p.checkDim(vec); err != nil {
					return err
				}
			}
			chunks[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BatchEmbeddingResult{}, err //nolint:wrapcheck // chunk errors are already wrapped
	}

	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}
	for _, c := range chunks {
		out.Embeddings = append(out.Embeddings, c.Embeddings...)
		out.PromptTokens += c.PromptTokens
		out.TotalTokens += c.TotalTokens
	}
	return out, nil
}

func (p *InstrumentedEmbedder) checkDim(vec []float32) error {
	if p.opts.Dimensions > 0 && len(vec) != p.opts.Dimensions {
		return fmt.Errorf("%w: model %s returned %d dimensions, want %d",
			domain.ErrEmbeddingProviderError, p.model, len(vec), p.opts.Dimensions)
	}
	return nil
}

// providerError makes sure err matches domain.ErrEmbeddingProviderError.
func providerError(err error) error {
	if errors.Is(err, domain.ErrEmbeddingProviderError) {
		return err
	}
	return errors.Join(domain.ErrEmbeddingProviderError, err)
}
