package catalog

import "github.com/arfaouiahmed1/stage/internal/domain/document"

var _ DocumentSource = staticDocs(nil)

// staticDocs serves a fixed document slice in place of a retrieval service.
type staticDocs []document.Document

func (s staticDocs) Documents() []document.Document { return s }

func NewStatic(docs []document.Document) *Service {
	return New(staticDocs(docs))
}
