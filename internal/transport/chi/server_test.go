package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestGenerate_Complete(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodPost, "/generate",
		`{"dimension":"creativity","subcategory":"innovation_problem_solving","target_year_level":"2","num_questions":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decode[struct {
		Questions []map[string]any `json:"questions"`
		Status    string           `json:"status"`
		Message   string           `json:"message"`
	}](t, rr)
	if len(resp.Questions) != 2 || resp.Status != "complete" {
		t.Fatalf("unexpected response %+v", resp)
	}
	for _, q := range resp.Questions {
		if q["dimension"] != "creativity" || q["target_year_level"] != "2" {
			t.Errorf("unexpected question %v", q)
		}
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestGenerate_FailureIsReportedInBody(t *testing.T) {
	gen := &stubGenerator{err: domain.NewGenerationError(domain.FailureNetwork, nil)}
	h := newTestHandler(t, serverOpts{gen: gen})

	rr := do(t, h, http.MethodPost, "/generate", `{"num_questions":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decode[struct {
		Questions []map[string]any `json:"questions"`
		Status    string           `json:"status"`
	}](t, rr)
	if resp.Status != "failed" || len(resp.Questions) != 1 || resp.Questions[0]["error"] == nil {
		t.Errorf("expected a single error record, got %+v", resp)
	}
}

func TestGenerate_Validation(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodPost, "/generate", `{"num_questions":50}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	resp := decode[errorResponse](t, rr)
	if resp.Code != codeValidationFailed || !strings.Contains(resp.Message, "num_questions") {
		t.Errorf("unexpected error %+v", resp)
	}

	rr = do(t, h, http.MethodPost, "/generate", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rr.Code)
	}
}

func TestSearch_QueryParams(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodPost, "/search?query=creative+team+project&top_k=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[searchResponse](t, rr)
	if resp.Total != 2 || resp.Results[0].Rank != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Results[0].Score < resp.Results[1].Score {
		t.Error("results must be ordered by descending score")
	}
}

func TestSearch_JSONBody(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodPost, "/search", `{"query":"merge conflicts","top_k":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp := decode[searchResponse](t, rr); resp.Total != 1 {
		t.Errorf("expected 1 result, got %d", resp.Total)
	}
}

func TestSearch_TopKZeroVersusAbsent(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodPost, "/search?query=creative+team+project&top_k=0", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp := decode[searchResponse](t, rr); resp.Total != 0 {
		t.Errorf("top_k=0: expected no results, got %d", resp.Total)
	}

	rr = do(t, h, http.MethodPost, "/search?query=creative+team+project", "")
	if resp := decode[searchResponse](t, rr); resp.Total != 3 {
		t.Errorf("absent top_k: expected the whole 3-document corpus, got %d", resp.Total)
	}
}

func TestSearch_Validation(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	tests := []struct {
		name   string
		target string
	}{
		{"missing query", "/search"},
		{"bad top_k", "/search?query=x&top_k=abc"},
		{"negative top_k", "/search?query=x&top_k=-1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rr := do(t, h, http.MethodPost, tc.target, ""); rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodGet, "/suggestions?partial_input=crea", "")
	sugg := decode[map[string][]string](t, rr)["suggestions"]
	if !slices.Equal(sugg, []string{"creative_thinking", "creativity"}) {
		t.Errorf("unexpected suggestions %v", sugg)
	}

	rr = do(t, h, http.MethodGet, "/dimensions", "")
	if dims := decode[map[string][]string](t, rr)["dimensions"]; len(dims) != 2 {
		t.Errorf("unexpected dimensions %v", dims)
	}

	rr = do(t, h, http.MethodGet, "/subcategories/creativity", "")
	subs := decode[struct {
		Subcategories []string `json:"subcategories"`
	}](t, rr)
	if !slices.Equal(subs.Subcategories, []string{"creative_thinking", "innovation_problem_solving"}) {
		t.Errorf("unexpected subcategories %v", subs.Subcategories)
	}

	rr = do(t, h, http.MethodGet, "/question-types", "")
	if types := decode[map[string][]string](t, rr)["question_types"]; !slices.Contains(types, "design_task") {
		t.Errorf("unexpected question types %v", types)
	}
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	health := decode[healthResponse](t, rr)
	if health.Status != "ok" || health.Checks["index"] != "ok" || health.Documents != 3 {
		t.Errorf("unexpected health %+v", health)
	}

	rr = do(t, h, http.MethodGet, "/", "")
	if info := decode[infoResponse](t, rr); !info.Ready || info.Name != serviceName {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestQuizzes_Disabled(t *testing.T) {
	h := newTestHandler(t, serverOpts{})

	rr := do(t, h, http.MethodGet, "/quizzes", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a database, got %d", rr.Code)
	}
}

func TestQuizzes_RoundTrip(t *testing.T) {
	h := newTestHandler(t, serverOpts{store: newMemStore()})

	rr := do(t, h, http.MethodPost, "/quizzes",
		`{"title":"Week 1","questions":[{"generated_id":"gen_1","question_text":"Design a study group app."}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	created := decode[struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}](t, rr)
	if !strings.HasPrefix(created.ID, "quiz_") || created.Title != "Week 1" {
		t.Fatalf("unexpected quiz %+v", created)
	}

	rr = do(t, h, http.MethodGet, "/quizzes/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get quiz: expected 200, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/quizzes/"+created.ID+"/responses",
		`{"student_name":"Sam","responses":{"gen_1":"my answer"},"scores":{"gen_1":4}}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/quizzes/"+created.ID+"/responses", "")
	list := decode[struct {
		Total int `json:"total"`
	}](t, rr)
	if list.Total != 1 {
		t.Errorf("expected 1 response, got %d", list.Total)
	}

	rr = do(t, h, http.MethodGet, "/quizzes", "")
	if quizzes := decode[struct {
		Total int `json:"total"`
	}](t, rr); quizzes.Total != 1 {
		t.Errorf("expected 1 quiz, got %d", quizzes.Total)
	}
}

func TestQuizzes_Errors(t *testing.T) {
	h := newTestHandler(t, serverOpts{store: newMemStore()})

	if rr := do(t, h, http.MethodGet, "/quizzes/quiz_missing", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown quiz: expected 404, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/quizzes", `{"title":"empty","questions":[]}`); rr.Code != http.StatusBadRequest {
		t.Errorf("empty quiz: expected 400, got %d", rr.Code)
	}
	rr := do(t, h, http.MethodPost, "/quizzes/quiz_missing/responses", `{"student_name":"Sam"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("responses for unknown quiz: expected 404, got %d", rr.Code)
	}
}

func TestAuth_Applied(t *testing.T) {
	h := newTestHandler(t, serverOpts{apiKeys: []string{"secret"}})

	if rr := do(t, h, http.MethodGet, "/dimensions", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health must be exempt, got %d", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t, serverOpts{})
	rr := do(t, h, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if resp := decode[errorResponse](t, rr); resp.Code != codeNotFound {
		t.Errorf("unexpected code %s", resp.Code)
	}
}
