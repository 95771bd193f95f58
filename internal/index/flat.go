// Package index holds the exact inner-product index over unit-length vectors.
package index

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

// ErrDimensionMismatch signals vectors of differing length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Hit is a search match: the position of the vector in build order and its score.
type Hit struct {
	Position int
	Score    float64
}

// Flat is an exact inner-product index. It is read-only after Build and safe
// for concurrent searches.
type Flat struct {
	dim     int
	n       int
	vectors []float32 // row-major, n*dim
}

// Normalize scales v to unit L2 norm in place and returns it. Zero vectors are
// left unchanged. Corpus and query vectors must both go through Normalize.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// Build embeds texts with e and returns the index. The i-th text gets position i.
func Build(ctx context.Context, e domain.Embedder, texts []string) (*Flat, error) {
	if len(texts) == 0 {
		return &Flat{}, nil
	}
	res, err := domain.EmbedAll(ctx, e, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", errors.Join(domain.ErrEmbeddingProviderError, err))
	}
	return FromVectors(res.Embeddings)
}

// FromVectors builds an index from precomputed vectors. Vectors are copied and normalized.
func FromVectors(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return &Flat{}, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vector 0 is empty: %w", ErrDimensionMismatch)
	}
	f := &Flat{dim: dim, n: len(vectors), vectors: make([]float32, 0, dim*len(vectors))}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d: %w", i, len(v), dim, ErrDimensionMismatch)
		}
		start := len(f.vectors)
		f.vectors = append(f.vectors, v...)
		Normalize(f.vectors[start:])
	}
	return f, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return f.n }

// Dim returns the vector dimensionality, 0 for an empty index.
func (f *Flat) Dim() int { return f.dim }

// Search returns at most k hits ordered by descending score, ties by ascending
// position. query must already be normalized.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 || f.n == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has %d dimensions, want %d: %w", len(query), f.dim, ErrDimensionMismatch)
	}

	all := make([]Hit, f.n)
	for i := range f.n {
		all[i] = Hit{Position: i, Score: dot(query, f.vectors[i*f.dim:(i+1)*f.dim])}
	}
	slices.SortStableFunc(all, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return all[:min(k, f.n)], nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return clamp(s)
}

// clamp keeps rounding error from pushing a cosine outside [-1, 1].
func clamp(s float64) float64 {
	return math.Max(-1, math.Min(1, s))
}
