package index

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

// hashEmbedder is a deterministic bag-of-words embedder.
type hashEmbedder struct {
	dim   int
	calls int
}

func (e *hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	v := make([]float32, e.dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		v[h.Sum32()%uint32(e.dim)] += 1 + float32(len(tok)%3)
	}
	return domain.EmbeddingResult{Embedding: v, TotalTokens: len(text)}, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New("connection refused")
}
