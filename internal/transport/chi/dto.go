package chi

import (
	"github.com/arfaouiahmed1/stage/internal/domain/document"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
)

// errorCode is the machine-readable error code of an errorResponse.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeUnauthorized     errorCode = "unauthorized"
	codeNotFound         errorCode = "not_found"
	codeIndexNotReady    errorCode = "index_not_ready"
	codeEmbeddingError   errorCode = "embedding_provider_error"
	codeGenerationError  errorCode = "generation_failed"
	codeNotImplemented   errorCode = "not_implemented"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type infoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Ready     bool   `json:"ready"`
	Documents int    `json:"documents"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
}

type generateResponse struct {
	Questions     []any  `json:"questions"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Requested     int    `json:"requested"`
	Generated     int    `json:"generated"`
	RawCandidates int    `json:"raw_candidates"`
	Rejected      int    `json:"rejected"`
}

func generateToResponse(out question.Outcome) generateResponse {
	return generateResponse{
		Questions:     out.Records(),
		Status:        string(out.Status()),
		Message:       out.Message(),
		Requested:     out.Requested,
		Generated:     len(out.Questions),
		RawCandidates: out.RawCandidates,
		Rejected:      out.Rejected,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

type searchResultItem struct {
	Rank     int           `json:"rank"`
	Score    float64       `json:"score"`
	Document document.View `json:"document"`
}

type searchResponse struct {
	Query   string             `json:"query"`
	Results []searchResultItem `json:"results"`
	Total   int                `json:"total"`
}

func searchToResponse(query string, results []result.Result) searchResponse {
	items := make([]searchResultItem, len(results))
	for i, r := range results {
		items[i] = searchResultItem{Rank: r.Rank(), Score: r.Score(), Document: r.Document().View()}
	}
	return searchResponse{Query: query, Results: items, Total: len(items)}
}

type saveQuizRequest struct {
	Title     string              `json:"title"`
	Questions []question.Question `json:"questions"`
}

type submitResponsesRequest struct {
	StudentName string             `json:"student_name"`
	Responses   map[string]string  `json:"responses"`
	Scores      map[string]float64 `json:"scores"`
}
