// Package generation runs the retrieval-augmented question generation pipeline:
// retrieve context, assemble the prompt, call the generator, validate the output.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
	"github.com/arfaouiahmed1/stage/internal/logger"
	"github.com/arfaouiahmed1/stage/internal/metrics"
)

// Options tune the pipeline.
type Options struct {
	// TopK is the number of context documents retrieved per request.
	TopK int
	// ContextChars bounds the context excerpt inside the prompt.
	ContextChars int
}

// Service generates assessment questions.
type Service struct {
	retriever Retriever
	generator domain.Generator
	validator *Validator
	opts      Options
	logger    *zap.Logger
}

// New creates a generation service.
func New(retriever Retriever, generator domain.Generator, validator *Validator, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = NewValidator(logger)
	}
	return &Service{
		retriever: retriever,
		generator: generator,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// GenerateQuestions runs the pipeline for one request. Generation and
// validation failures are reported inside the Outcome; an error is returned
// only for invalid parameters or when retrieval itself fails.
func (s *Service) GenerateQuestions(ctx context.Context, p question.Params) (question.Outcome, error) {
	p, err := p.Normalize()
	if err != nil {
		return question.Outcome{}, err
	}
	log := logger.FromContextOr(ctx, s.logger)

	query := p.Query()
	docs, err := s.retriever.Retrieve(ctx, query, s.opts.TopK)
	if err != nil {
		return question.Outcome{}, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := AssemblePrompt(docs, p, s.opts.ContextChars)
	req := ValidationRequest{
		Defaults:   p.Defaults(),
		Provenance: provenance(query, docs),
		Requested:  p.NumQuestions,
	}

	start := time.Now()
	raw, genErr := s.generator.Complete(ctx, prompt)
	if genErr != nil {
		var ge *domain.GenerationError
		if !errors.As(genErr, &ge) {
			genErr = domain.NewGenerationError(domain.FailureNetwork, genErr)
		}
		log.Warn("Generation failed, using fallback path",
			zap.Duration("duration", time.Since(start)),
			zap.Error(genErr),
		)
		raw = ""
	}

	out := s.validator.Validate(raw, req)
	if genErr != nil {
		out.GenerationFailure = genErr.Error()
		if out.Error != nil {
			out.Error.Error = genErr.Error()
		}
	}

	metrics.GenerationOutcomesTotal.WithLabelValues(string(out.Status()), string(out.Stage)).Inc()
	log.Info("Questions generated",
		zap.String("query", query),
		zap.Int("context_docs", len(docs)),
		zap.Int("requested", out.Requested),
		zap.Int("generated", len(out.Questions)),
		zap.Int("rejected", out.Rejected),
		zap.String("stage", string(out.Stage)),
		zap.String("status", string(out.Status())),
	)
	return out, nil
}

func provenance(query string, docs []result.Result) question.Provenance {
	return question.Provenance{
		Query:              query,
		RetrievedDocCount:  len(docs),
		TopSimilarityScore: result.TopScore(docs),
	}
}
