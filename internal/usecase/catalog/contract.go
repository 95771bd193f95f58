package catalog

import "github.com/arfaouiahmed1/stage/internal/domain/document"

// DocumentSource exposes the currently indexed corpus.
type DocumentSource interface {
	Documents() []document.Document
}
