package chi

import (
	"context"
	"hash/fnv"
	"net/http"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/config"
	"github.com/arfaouiahmed1/stage/internal/corpus"
	"github.com/arfaouiahmed1/stage/internal/db"
	"github.com/arfaouiahmed1/stage/internal/domain"
)

// --- Mocks ---

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

// memStore is an in-memory db.Store.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ db.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close()                     {}

func (m *memStore) WaitForReady(context.Context, time.Duration) error { return nil }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return m.Set(ctx, key, value)
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// --- Fixtures ---

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
			{"dimension_name": "creativity", "subcategory_name": "creative_thinking"},
		},
	}
}

const twoQuestions = `[
  {"question_text": "Your team must design a mobile app that helps students form study groups."},
  {"question_text": "Propose an unconventional way to debug a failing integration test as a team."}
]`

type serverOpts struct {
	gen     *stubGenerator
	store   db.Store
	apiKeys []string
}

func newTestHandler(t *testing.T, opts serverOpts) http.Handler {
	t.Helper()
	if opts.gen == nil {
		opts.gen = &stubGenerator{response: twoQuestions}
	}
	cfg := config.Config{Corpus: config.CorpusConfig{Dir: "unused"}}
	cfg.ApplyDefaults()

	engine, err := app.NewEngine(context.Background(), app.Deps{
		Config:        cfg,
		Source:        testSource(),
		Store:         opts.store,
		DocEmbedder:   hashEmbedder{},
		QueryEmbedder: hashEmbedder{},
		Generator:     opts.gen,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return NewServer(engine, nil).Handler(opts.apiKeys)
}
