// Package chi serves the question generation API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/metrics"
	healthuc "github.com/arfaouiahmed1/stage/internal/usecase/health"
	"github.com/arfaouiahmed1/stage/internal/version"
)

const serviceName = "stage"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over an Engine.
type Server struct {
	engine        *app.Engine
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(engine *app.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: engine, logger: logger}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, codeIndexNotReady),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationError),
		sentinelHandler(domain.ErrNotImplemented, http.StatusServiceUnavailable, codeNotImplemented),
	}
	return s
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/", s.Info)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/generate", s.Generate)
	r.Post("/search", s.Search)
	r.Get("/suggestions", s.Suggestions)
	r.Get("/dimensions", s.Dimensions)
	r.Get("/subcategories/{dimension}", s.Subcategories)
	r.Get("/question-types", s.QuestionTypes)

	r.Route("/quizzes", func(r chi.Router) {
		r.Post("/", s.SaveQuiz)
		r.Get("/", s.ListQuizzes)
		r.Get("/{id}", s.GetQuiz)
		r.Post("/{id}/responses", s.SubmitResponses)
		r.Get("/{id}/responses", s.ListResponses)
	})
	return r
}

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	docs := 0
	if s.engine.Ready() {
		docs = len(s.engine.Retrieval.Documents())
	}
	writeJSON(w, http.StatusOK, infoResponse{
		Name:      serviceName,
		Version:   version.String(),
		Ready:     s.engine.Ready(),
		Documents: docs,
	})
}

// HealthCheck handles GET /health. Only an unusable index yields 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.engine.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Generate handles POST /generate. Generation failures are reported in the
// body with status "failed", not as an HTTP error.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var p question.Params
	if !decodeBody(w, r, &p) {
		return
	}

	out, err := s.engine.GenerateQuestions(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateToResponse(out))
}

// Search handles POST /search. query and top_k are read from the query string
// and fall back to a JSON body.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "query", q, &req.Query); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter query: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "top_k", q, &req.TopK); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter top_k: "+err.Error())
		return
	}

	if req.Query == "" && r.ContentLength != 0 {
		var body searchRequest
		if !decodeBody(w, r, &body) {
			return
		}
		req.Query = body.Query
		if req.TopK == nil {
			req.TopK = body.TopK
		}
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	topK := app.DefaultTopK
	if req.TopK != nil {
		if *req.TopK < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must not be negative")
			return
		}
		topK = *req.TopK
	}

	results, err := s.engine.RetrieveContext(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchToResponse(req.Query, results))
}

// Suggestions handles GET /suggestions?partial_input=.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	var partial string
	if err := runtime.BindQueryParameter("form", true, false, "partial_input", r.URL.Query(), &partial); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter partial_input: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": s.engine.ListSuggestions(partial)})
}

// Dimensions handles GET /dimensions.
func (s *Server) Dimensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"dimensions": s.engine.Catalog.Dimensions()})
}

// Subcategories handles GET /subcategories/{dimension}.
func (s *Server) Subcategories(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	writeJSON(w, http.StatusOK, map[string]any{
		"dimension":     dimension,
		"subcategories": s.engine.Catalog.Subcategories(dimension),
	})
}

// QuestionTypes handles GET /question-types.
func (s *Server) QuestionTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"question_types": s.engine.Catalog.QuestionTypes()})
}

// SaveQuiz handles POST /quizzes.
func (s *Server) SaveQuiz(w http.ResponseWriter, r *http.Request) {
	var req saveQuizRequest
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := s.engine.Quizzes.Save(r.Context(), req.Title, req.Questions)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/quizzes/%s", q.ID))
	writeJSON(w, http.StatusCreated, q)
}

// ListQuizzes handles GET /quizzes.
func (s *Server) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.engine.Quizzes.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": quizzes, "total": len(quizzes)})
}

// GetQuiz handles GET /quizzes/{id}.
func (s *Server) GetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.engine.Quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// SubmitResponses handles POST /quizzes/{id}/responses.
func (s *Server) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	var req submitResponsesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.engine.Quizzes.SaveResponses(
		r.Context(), chi.URLParam(r, "id"), req.StudentName, req.Responses, req.Scores,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListResponses handles GET /quizzes/{id}/responses.
func (s *Server) ListResponses(w http.ResponseWriter, r *http.Request) {
	resps, err := s.engine.Quizzes.ListResponses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": resps, "total": len(resps)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidRequest,
		domain.ErrIndexNotReady,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationFailed,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler reports the validation detail, which never carries internals.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidRequest.Error()); i >= 0 {
		msg = msg[i:]
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
