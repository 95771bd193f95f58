package generation

import (
	"context"

	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
)

// Retriever ranks corpus documents for a free-text query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]result.Result, error)
}
