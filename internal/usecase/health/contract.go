package health

import (
	"context"

	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

// IndexState reports whether the corpus index is published.
type IndexState interface {
	Ready() bool
	Documents() []document.Document
}

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
