// Package retrieval embeds queries and ranks corpus documents by cosine similarity.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/document"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
	"github.com/arfaouiahmed1/stage/internal/index"
	"github.com/arfaouiahmed1/stage/internal/logger"
	"github.com/arfaouiahmed1/stage/internal/metrics"
)

// snapshot pairs the documents with the index built from them. Position i in
// the index is docs[i].
type snapshot struct {
	docs []document.Document
	idx  Index
}

// Service answers retrieval queries against the corpus index.
// Queries fail with domain.ErrIndexNotReady until Build has completed.
type Service struct {
	docEmbedder   domain.Embedder
	queryEmbedder domain.Embedder
	maxTopK       int
	logger        *zap.Logger

	snap atomic.Pointer[snapshot]
}

// New creates a retrieval service. Documents are embedded with docEmbedder,
// queries with queryEmbedder; both must produce vectors of the same model.
func New(docEmbedder, queryEmbedder domain.Embedder, maxTopK int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		maxTopK:       maxTopK,
		logger:        logger,
	}
}

// Build embeds every document and publishes the index. It blocks until the
// whole corpus is embedded; a partially built index is never visible.
func (s *Service) Build(ctx context.Context, docs []document.Document) error {
	start := time.Now()

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.SearchableText()
	}

	idx, err := index.Build(ctx, s.docEmbedder, texts)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	s.Publish(docs, idx)
	s.logger.Info("Index built",
		zap.Int("documents", idx.Len()),
		zap.Int("dimensions", idx.Dim()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Publish installs a prebuilt index over docs.
func (s *Service) Publish(docs []document.Document, idx Index) {
	s.snap.Store(&snapshot{docs: docs, idx: idx})
	metrics.IndexDocuments.Set(float64(idx.Len()))
}

// Ready reports whether an index has been published.
func (s *Service) Ready() bool {
	return s.snap.Load() != nil
}

// Documents returns the indexed corpus, nil before the index is ready.
func (s *Service) Documents() []document.Document {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.docs
}

// Retrieve returns at most topK documents ranked by similarity to query.
// An empty corpus yields an empty result.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]result.Result, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if topK < 0 {
		return nil, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidRequest, topK)
	}
	if s.maxTopK > 0 && topK > s.maxTopK {
		topK = s.maxTopK
	}
	if topK == 0 || snap.idx.Len() == 0 {
		return []result.Result{}, nil
	}

	emb, err := s.queryEmbedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec := index.Normalize(append([]float32(nil), emb.Embedding...))

	hits, err := snap.idx.Search(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	out := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(snap.docs) {
			continue
		}
		out = append(out, result.New(snap.docs[h.Position], h.Score, len(out)+1))
	}
	if len(out) > 0 {
		metrics.RetrievalTopScore.Observe(out[0].Score())
	}

	logger.FromContextOr(ctx, s.logger).Debug("Retrieved context",
		zap.Int("top_k", topK),
		zap.Int("results", len(out)),
		zap.Float64("top_score", result.TopScore(out)),
	)
	return out, nil
}
