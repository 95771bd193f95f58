package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

func newBuiltService(t *testing.T, docs []document.Document, maxTopK int) (*Service, *hashEmbedder) {
	t.Helper()
	emb := &hashEmbedder{dim: 128}
	s := New(emb, emb, maxTopK, nil)
	if err := s.Build(context.Background(), docs); err != nil {
		t.Fatalf("build: %v", err)
	}
	return s, emb
}

func TestRetrieve_NotReady(t *testing.T) {
	emb := &hashEmbedder{dim: 8}
	s := New(emb, emb, 50, nil)
	if s.Ready() {
		t.Fatal("service must not be ready before Build")
	}
	_, err := s.Retrieve(context.Background(), "anything", 3)
	if !errors.Is(err, domain.ErrIndexNotReady) {
		t.Errorf("expected ErrIndexNotReady, got %v", err)
	}
	if s.Documents() != nil {
		t.Error("expected no documents before Build")
	}
}

func TestRetrieve_CreativityScenario(t *testing.T) {
	s, _ := newBuiltService(t, creativityCorpus(), 50)

	res, err := s.Retrieve(context.Background(), "creative problem solving for a team project", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) > 3 {
		t.Fatalf("expected at most 3 results, got %d", len(res))
	}
	for i, r := range res {
		if r.Score() < -1 || r.Score() > 1 {
			t.Errorf("score %f out of range", r.Score())
		}
		if r.Rank() != i+1 {
			t.Errorf("result %d has rank %d", i, r.Rank())
		}
		if i > 0 && !(res[i-1].Score() > r.Score()) {
			t.Errorf("scores not strictly descending: %f then %f", res[i-1].Score(), r.Score())
		}
	}
}

func TestRetrieve_NormalizationSymmetry(t *testing.T) {
	docs := creativityCorpus()
	s, emb := newBuiltService(t, docs, 50)
	ctx := context.Background()

	query := "innovative team idea"
	res, err := s.Retrieve(ctx, query, len(docs))
	if err != nil {
		t.Fatal(err)
	}
	q, _ := emb.Embed(ctx, query)
	for _, r := range res {
		d, _ := emb.Embed(ctx, r.Document().SearchableText())
		want := cosine(q.Embedding, d.Embedding)
		if math.Abs(r.Score()-want) > 1e-5 {
			t.Errorf("score %f differs from independent cosine %f", r.Score(), want)
		}
	}
}

func TestRetrieve_TopKBound(t *testing.T) {
	docs := creativityCorpus()
	s, _ := newBuiltService(t, docs, 2)

	for _, k := range []int{0, 1, 2, 3, 10} {
		res, err := s.Retrieve(context.Background(), "team project", k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		limit := min(k, len(docs), 2)
		if len(res) > limit {
			t.Errorf("k=%d: got %d results, bound %d", k, len(res), limit)
		}
	}
}

func TestRetrieve_UnclampedHugeTopK(t *testing.T) {
	docs := creativityCorpus()
	s, _ := newBuiltService(t, docs, 0)

	res, err := s.Retrieve(context.Background(), "team project", math.MaxInt)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != len(docs) {
		t.Errorf("expected every document, got %d", len(res))
	}
}

func TestRetrieve_EmptyCorpus(t *testing.T) {
	s, emb := newBuiltService(t, nil, 50)
	before := emb.calls

	res, err := s.Retrieve(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("empty corpus must not fail: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("expected no results, got %d", len(res))
	}
	if emb.calls != before {
		t.Error("query must not be embedded against an empty corpus")
	}
}

func TestRetrieve_InvalidInput(t *testing.T) {
	s, _ := newBuiltService(t, creativityCorpus(), 50)

	if _, err := s.Retrieve(context.Background(), "  ", 3); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("blank query: expected ErrInvalidRequest, got %v", err)
	}
	if _, err := s.Retrieve(context.Background(), "x", -1); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("negative k: expected ErrInvalidRequest, got %v", err)
	}
}

func TestRetrieve_QueryEmbeddingFails(t *testing.T) {
	s, emb := newBuiltService(t, creativityCorpus(), 50)
	emb.err = errProviderDown

	if _, err := s.Retrieve(context.Background(), "team", 3); !errors.Is(err, errProviderDown) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestBuild_ProviderDown(t *testing.T) {
	emb := &hashEmbedder{dim: 8, err: errProviderDown}
	s := New(emb, emb, 50, nil)

	err := s.Build(context.Background(), creativityCorpus())
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if s.Ready() {
		t.Error("failed build must not publish an index")
	}
}
