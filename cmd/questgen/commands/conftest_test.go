package commands

import (
	"bytes"
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"go.uber.org/zap"

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

// useTestSession makes every command run against an in-memory engine.
func useTestSession(t *testing.T, gen *stubGenerator) {
	t.Helper()
	orig := startSession
	t.Cleanup(func() { startSession = orig })

	startSession = func(ctx context.Context) (*session, error) {
		cfg := config.Config{Corpus: config.CorpusConfig{Dir: "unused"}}
		cfg.ApplyDefaults()
		engine, err := app.NewEngine(ctx, app.Deps{
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
			return nil, err
		}
		return &session{cfg: cfg, logger: zap.NewNop(), engine: engine}, nil
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
