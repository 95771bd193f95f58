package retrieval

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

// hashEmbedder is a deterministic bag-of-words embedder; vectors are not normalized.
type hashEmbedder struct {
	dim   int
	calls int
	err   error
}

func (e *hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	v := make([]float32, e.dim)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		v[h.Sum32()%uint32(e.dim)] += 2
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

var errProviderDown = errors.New("provider down")

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func creativityCorpus() []document.Document {
	q := func(id, text, qtype string) document.Document {
		return document.NewQuestion(document.QuestionFields{
			ID: id, Dimension: "creativity", Subcategory: "innovation_problem_solving",
			Text: text, QuestionType: qtype, YearLevel: "2",
		})
	}
	return []document.Document{
		q("Q1", "Propose a creative approach to a team project with limited resources", "design_task"),
		q("Q2", "Explain how you would solve an open ended problem alone", "problem_solving"),
		q("Q3", "Present an innovative idea to your class", "presentation_task"),
	}
}
