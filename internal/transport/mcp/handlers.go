package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/document"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
)

// Handlers implements the MCP tools over an Engine.
type Handlers struct {
	engine *app.Engine
	logger *zap.Logger
}

// NewHandlers creates tool handlers.
func NewHandlers(engine *app.Engine, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{engine: engine, logger: logger}
}

type generateResult struct {
	Questions []any  `json:"questions"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type contextItem struct {
	Rank     int           `json:"rank"`
	Score    float64       `json:"score"`
	Document document.View `json:"document"`
}

// GenerateQuestions handles the generate_questions tool.
func (h *Handlers) GenerateQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := question.Params{
		Dimension:         request.GetString("dimension", ""),
		Subcategory:       request.GetString("subcategory", ""),
		QuestionType:      request.GetString("question_type", ""),
		TargetYearLevel:   request.GetString("target_year_level", ""),
		AdditionalContext: request.GetString("additional_context", ""),
		NumQuestions:      request.GetInt("num_questions", 1),
	}

	out, err := h.engine.GenerateQuestions(ctx, p)
	if err != nil {
		return h.toolError("generation failed", err), nil
	}

	return jsonResult(generateResult{
		Questions: out.Records(),
		Status:    string(out.Status()),
		Message:   out.Message(),
	})
}

// RetrieveContext handles the retrieve_context tool.
func (h *Handlers) RetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	topK := app.DefaultTopK
	if _, ok := request.GetArguments()["top_k"]; ok {
		topK = request.GetInt("top_k", 0)
		if topK < 0 {
			return mcp.NewToolResultError("top_k must not be negative"), nil
		}
	}

	results, err := h.engine.RetrieveContext(ctx, query, topK)
	if err != nil {
		return h.toolError("retrieval failed", err), nil
	}

	items := make([]contextItem, len(results))
	for i, r := range results {
		items[i] = contextItem{Rank: r.Rank(), Score: r.Score(), Document: r.Document().View()}
	}
	return jsonResult(map[string]any{"query": query, "results": items})
}

// ListSuggestions handles the list_suggestions tool.
func (h *Handlers) ListSuggestions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partial := request.GetString("partial_text", "")
	return jsonResult(map[string][]string{"suggestions": h.engine.ListSuggestions(partial)})
}

// toolError reports err to the agent. Validation detail is passed through;
// anything else is reduced to its sentinel.
func (h *Handlers) toolError(prefix string, err error) *mcp.CallToolResult {
	h.logger.Warn("mcp tool error", zap.String("op", prefix), zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return mcp.NewToolResultError(err.Error())
	case errors.Is(err, domain.ErrIndexNotReady):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", prefix, domain.ErrIndexNotReady))
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", prefix, domain.ErrEmbeddingProviderError))
	default:
		return mcp.NewToolResultError(prefix + ": internal error")
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
