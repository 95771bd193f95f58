package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/config"
	"github.com/arfaouiahmed1/stage/internal/db"
	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/metrics"
	"github.com/arfaouiahmed1/stage/internal/repository/embcache"
	openaiTransport "github.com/arfaouiahmed1/stage/internal/transport/openai"
	embeddinguc "github.com/arfaouiahmed1/stage/internal/usecase/embedding"
)

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// The base provider is returned too, for health checks.
func buildEmbedder(
	cfg config.Config, instruction string, store db.Store, logger *zap.Logger,
) (domain.Embedder, domain.HealthChecker) {
	ec := cfg.Embedding

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     ec.APIKey,
		BaseURL:    ec.BaseURL,
		Model:      ec.Model,
		Dimensions: ec.Dimensions,
		Provider:   ec.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: fmt.Sprintf("%semb_cache:%s:", cfg.Database.KeyPrefix, ec.Model),
			TTL:       time.Duration(cfg.Database.CacheTTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, ec.Provider, ec.Model, embeddinguc.Options{
		BatchSize:   ec.BatchSize,
		Dimensions:  ec.Dimensions,
		Concurrency: ec.Concurrency,
	}, logger)

	// Instruction prefix (outermost: the cache key includes the instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction), base
	}
	return embedder, base
}

func buildGenerator(cfg config.Config, logger *zap.Logger) domain.Generator {
	gc := cfg.Generation
	return openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      gc.APIKey,
		BaseURL:     gc.BaseURL,
		Model:       gc.Model,
		Temperature: gc.Temperature,
		MaxTokens:   gc.MaxTokens,
		Timeout:     time.Duration(gc.TimeoutSec) * time.Second,
		Provider:    gc.Provider,
		Logger:      logger,
	})
}

// embeddingHealthChecker adapts a domain.HealthChecker to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	checker domain.HealthChecker
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if err := h.checker.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

// asHealthChecker returns the embedder's health check, nil when it has none.
func asHealthChecker(e domain.Embedder) domain.HealthChecker {
	if hc, ok := e.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
