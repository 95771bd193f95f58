package mcp

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/config"
	"github.com/arfaouiahmed1/stage/internal/corpus"
	"github.com/arfaouiahmed1/stage/internal/domain"
)

type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	v := make([]float32, 32)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		v[h.Sum32()%32]++
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Complete(context.Context, string) (string, error) {
	return s.response, s.err
}

func newTestHandlers(t *testing.T, gen *stubGenerator) *Handlers {
	t.Helper()
	cfg := config.Config{Corpus: config.CorpusConfig{Dir: "unused"}}
	cfg.ApplyDefaults()

	engine, err := app.NewEngine(context.Background(), app.Deps{
		Config: cfg,
		Source: corpus.MemorySource{
			"questions": {
				{"question_id": "Q1", "dimension": "creativity", "subcategory": "innovation_problem_solving",
					"question_text": "Propose a creative approach to a team project", "question_type": "design_task"},
				{"question_id": "Q2", "dimension": "collaboration", "subcategory": "team_communication",
					"question_text": "Describe how your team resolves merge conflicts", "question_type": "problem_solving"},
			},
		},
		DocEmbedder:   hashEmbedder{},
		QueryEmbedder: hashEmbedder{},
		Generator:     gen,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return NewHandlers(engine, nil)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}
