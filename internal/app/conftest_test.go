package app

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/config"
	"github.com/arfaouiahmed1/stage/internal/corpus"
	"github.com/arfaouiahmed1/stage/internal/domain"
)

// hashEmbedder is a deterministic bag-of-words embedder.
type hashEmbedder struct {
	err error
}

func (e *hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
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

func testConfig() config.Config {
	cfg := config.Config{Corpus: config.CorpusConfig{Dir: "unused"}}
	cfg.ApplyDefaults()
	return cfg
}

func testSource() corpus.MemorySource {
	return corpus.MemorySource{
		"questions": {
			{
				"question_id": "Q1", "dimension": "creativity", "subcategory": "innovation_problem_solving",
				"question_text": "Propose a creative approach to a team project", "question_type": "design_task",
				"target_year_level": "2",
			},
			{
				"question_id": "Q2", "dimension": "collaboration", "subcategory": "team_communication",
				"question_text": "Describe how your team resolves merge conflicts", "question_type": "problem_solving",
				"target_year_level": "3",
			},
		},
		"taxonomy": {
			{"dimension_name": "creativity", "subcategory_name": "creative_thinking", "subcategory_description": "Generating ideas"},
		},
	}
}

const twoQuestions = `Here you go:
[
  {"question_text": "Your team must design a mobile app that helps students form study groups.", "time_limit_minutes": 20},
  {"question_text": "Propose an unconventional way to debug a failing integration test as a team."}
]`

var errProviderDown = errors.New("provider down")
