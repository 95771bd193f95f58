// Package app is the composition root: it builds the corpus index and every
// service once, and hands the result to the transports as an explicit Engine.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/config"
	"github.com/arfaouiahmed1/stage/internal/corpus"
	"github.com/arfaouiahmed1/stage/internal/db"
	dbRedis "github.com/arfaouiahmed1/stage/internal/db/redis"
	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
	"github.com/arfaouiahmed1/stage/internal/metrics"
	quizrepo "github.com/arfaouiahmed1/stage/internal/repository/quiz"
	catalogc "github.com/arfaouiahmed1/stage/internal/usecase/catalog"
	generationuc "github.com/arfaouiahmed1/stage/internal/usecase/generation"
	healthuc "github.com/arfaouiahmed1/stage/internal/usecase/health"
	quizuc "github.com/arfaouiahmed1/stage/internal/usecase/quiz"
	retrievaluc "github.com/arfaouiahmed1/stage/internal/usecase/retrieval"
)

// Deps are the inputs of NewEngine. Only Config is required; nil fields are
// built from it.
type Deps struct {
	Config config.Config
	Logger *zap.Logger

	// Source overrides the CSV directory named by corpus.dir.
	Source corpus.TableSource
	// Store overrides the Redis store built from the database section.
	Store db.Store
	// DocEmbedder and QueryEmbedder override the OpenAI embedder chain.
	DocEmbedder   domain.Embedder
	QueryEmbedder domain.Embedder
	// Generator overrides the OpenAI chat-completion client.
	Generator domain.Generator
}

// Engine owns the loaded corpus, the index and the services built on them.
// It is safe for concurrent use once NewEngine returns.
type Engine struct {
	Retrieval  *retrievaluc.Service
	Generation *generationuc.Service
	Catalog    *catalogc.Service
	Quizzes    *quizuc.Service
	Health     *healthuc.Service
	Report     corpus.LoadReport

	cfg       config.Config
	store     db.Store
	ownsStore bool
	logger    *zap.Logger
}

// NewEngine loads the corpus and builds the index. It returns only once the
// index is ready; a corpus or embedding failure aborts startup.
func NewEngine(ctx context.Context, deps Deps) (*Engine, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.Register()

	e := &Engine{cfg: cfg, logger: logger, store: deps.Store}

	if e.store == nil && cfg.Database.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create database store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
		e.store = store
		e.ownsStore = true
	}

	docEmbedder, queryEmbedder := deps.DocEmbedder, deps.QueryEmbedder
	checker := asHealthChecker(docEmbedder)
	if docEmbedder == nil {
		docEmbedder, checker = buildEmbedder(cfg, cfg.Embedding.DocumentInstruction, e.store, logger)
	}
	if queryEmbedder == nil {
		queryEmbedder, _ = buildEmbedder(cfg, cfg.Embedding.QueryInstruction, e.store, logger)
	}

	generator := deps.Generator
	if generator == nil {
		generator = buildGenerator(cfg, logger)
	}

	src := deps.Source
	if src == nil {
		src = corpus.NewDirSource(cfg.Corpus.Dir)
	}
	tables := corpus.Tables{
		Questions: cfg.Corpus.Questions,
		Taxonomy:  cfg.Corpus.Taxonomy,
		Rubrics:   cfg.Corpus.Rubrics,
	}

	docs, report, err := corpus.NewLoader(src, tables, logger).Load(ctx)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.Report = report

	e.Retrieval = retrievaluc.New(docEmbedder, queryEmbedder, cfg.Retrieval.MaxTopK, logger)
	if err := e.Retrieval.Build(ctx, docs); err != nil {
		e.Close()
		return nil, err
	}

	e.Generation = generationuc.New(
		e.Retrieval, generator, generationuc.NewValidator(logger),
		generationuc.Options{TopK: cfg.Retrieval.TopK, ContextChars: cfg.Retrieval.ContextChars},
		logger,
	)
	e.Catalog = catalogc.New(e.Retrieval)

	// A typed nil *quizrepo.Repo inside the interface would not compare equal to nil.
	var quizRepo quizuc.Repository
	var dbPinger healthuc.DBPinger
	if e.store != nil {
		quizRepo = quizrepo.New(e.store, cfg.Database.KeyPrefix)
		dbPinger = e.store
	}
	e.Quizzes = quizuc.New(quizRepo)

	var embChecker healthuc.EmbeddingChecker
	if checker != nil {
		embChecker = &embeddingHealthChecker{checker: checker}
	}
	e.Health = healthuc.New(e.Retrieval, dbPinger, embChecker)

	logger.Info("Engine ready",
		zap.Int("documents", report.Total()),
		zap.Bool("database", e.store != nil),
	)
	return e, nil
}

// GenerateQuestions runs the retrieval-augmented generation pipeline.
func (e *Engine) GenerateQuestions(ctx context.Context, p question.Params) (question.Outcome, error) {
	return e.Generation.GenerateQuestions(ctx, p)
}

// DefaultTopK asks RetrieveContext for the configured retrieval.top_k.
const DefaultTopK = -1

// RetrieveContext returns the topK documents most similar to query.
// DefaultTopK (any negative value) uses retrieval.top_k; zero yields no results.
func (e *Engine) RetrieveContext(ctx context.Context, query string, topK int) ([]result.Result, error) {
	if topK < 0 {
		topK = e.cfg.Retrieval.TopK
	}
	return e.Retrieval.Retrieve(ctx, query, topK)
}

// ListSuggestions returns categorical corpus values containing partial.
func (e *Engine) ListSuggestions(partial string) []string {
	return e.Catalog.ListSuggestions(partial)
}

// Ready reports whether the index is published.
func (e *Engine) Ready() bool {
	return e.Retrieval != nil && e.Retrieval.Ready()
}

// Close releases the database connection when the engine opened it.
func (e *Engine) Close() {
	if e.ownsStore && e.store != nil {
		e.store.Close()
	}
}
