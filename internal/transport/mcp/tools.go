// Package mcp exposes the question generation operations as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/version"
)

// NewServer creates an MCP server with every tool registered.
func NewServer(engine *app.Engine, logger *zap.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("stage question generator", version.Version)
	RegisterTools(s, engine, logger)
	return s
}

// RegisterTools registers the generate_questions, retrieve_context and list_suggestions tools.
func RegisterTools(server *mcpserver.MCPServer, engine *app.Engine, logger *zap.Logger) *Handlers {
	h := NewHandlers(engine, logger)

	server.AddTool(mcp.Tool{
		Name: "generate_questions",
		Description: "Generate programming education assessment questions grounded in the question database. " +
			"Returns the generated questions, or a single error record when none could be produced.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dimension": map[string]interface{}{
					"type":        "string",
					"description": "Assessment dimension, e.g. creativity",
				},
				"subcategory": map[string]interface{}{
					"type":        "string",
					"description": "Subcategory within the dimension, e.g. innovation_problem_solving",
				},
				"question_type": map[string]interface{}{
					"type":        "string",
					"description": "Preferred question type",
					"enum":        question.QuestionTypes,
				},
				"target_year_level": map[string]interface{}{
					"type":        "string",
					"description": "Student year level, 1 to 5",
				},
				"num_questions": map[string]interface{}{
					"type":        "number",
					"description": "Number of questions to generate (default: 1, max: 10)",
					"default":     1,
				},
				"additional_context": map[string]interface{}{
					"type":        "string",
					"description": "Free-text guidance for the generator",
				},
			},
		},
	}, h.GenerateQuestions)

	server.AddTool(mcp.Tool{
		Name:        "retrieve_context",
		Description: "Find the corpus documents (questions, taxonomy, rubrics) most similar to a query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of documents to return (default: 8)",
					"default":     8,
				},
			},
			Required: []string{"query"},
		},
	}, h.RetrieveContext)

	server.AddTool(mcp.Tool{
		Name:        "list_suggestions",
		Description: "List dimensions, subcategories and question types containing the given text, for autocomplete.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"partial_text": map[string]interface{}{
					"type":        "string",
					"description": "Text to match; empty lists every value",
				},
			},
		},
	}, h.ListSuggestions)

	return h
}
