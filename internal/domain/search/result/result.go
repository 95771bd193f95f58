package result

import "github.com/arfaouiahmed1/stage/internal/domain/document"

// Result is a single retrieval hit.
type Result struct {
	doc   document.Document
	score float64
	rank  int
}

// New creates a retrieval result. rank is 1-based.
func New(doc document.Document, score float64, rank int) Result {
	return Result{doc: doc, score: score, rank: rank}
}

// Document returns the retrieved document.
func (r Result) Document() document.Document { return r.doc }

// Score returns the cosine similarity in [-1, 1].
func (r Result) Score() float64 { return r.score }

// Rank returns the 1-based position in the result list.
func (r Result) Rank() int { return r.rank }

// TopScore returns the score of the first result, or 0 for an empty list.
func TopScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	return results[0].score
}
