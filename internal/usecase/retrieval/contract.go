package retrieval

import "github.com/arfaouiahmed1/stage/internal/index"

// Index is the read side of a built vector index.
type Index interface {
	Search(query []float32, k int) ([]index.Hit, error)
	Len() int
}
