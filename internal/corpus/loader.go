// Package corpus loads the question, taxonomy and rubric record sets into documents.
package corpus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

// Tables names the three sources, in load order.
type Tables struct {
	Questions string
	Taxonomy  string
	Rubrics   string
}

// DefaultTables returns the conventional source names.
func DefaultTables() Tables {
	return Tables{Questions: "questions", Taxonomy: "taxonomy", Rubrics: "rubrics"}
}

// SourceReport describes how one source was loaded.
type SourceReport struct {
	Name    string        `json:"name"`
	Kind    document.Kind `json:"kind"`
	Absent  bool          `json:"absent"`
	Loaded  int           `json:"loaded"`
	Skipped int           `json:"skipped"`
}

// LoadReport summarizes a corpus load.
type LoadReport struct {
	Sources []SourceReport `json:"sources"`
}

// Total returns the number of loaded documents.
func (r LoadReport) Total() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Loaded
	}
	return n
}

// Loader maps table rows to documents.
type Loader struct {
	src    TableSource
	tables Tables
	logger *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(src TableSource, tables Tables, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, tables: tables, logger: logger}
}

// Load reads every source in order and returns the documents. Absent sources
// are skipped. A source that cannot be read aborts the load with *domain.LoadError.
func (l *Loader) Load(ctx context.Context) ([]document.Document, LoadReport, error) {
	steps := []struct {
		name string
		kind document.Kind
		conv func(Row) document.Document
	}{
		{l.tables.Questions, document.KindQuestion, questionFromRow},
		{l.tables.Taxonomy, document.KindTaxonomy, taxonomyFromRow},
		{l.tables.Rubrics, document.KindRubric, rubricFromRow},
	}

	var (
		docs   []document.Document
		report LoadReport
	)
	for _, step := range steps {
		rep := SourceReport{Name: step.name, Kind: step.kind}
		t, err := l.src.LoadTable(ctx, step.name)
		if errors.Is(err, ErrSourceAbsent) {
			rep.Absent = true
			report.Sources = append(report.Sources, rep)
			l.logger.Info("corpus source absent, skipping", zap.String("source", step.name))
			continue
		}
		if err != nil {
			return nil, LoadReport{}, fmt.Errorf("load %s: %w", step.kind, err)
		}

		rep.Skipped = t.Malformed
		for _, row := range t.Rows {
			if blank(row) {
				rep.Skipped++
				continue
			}
			docs = append(docs, step.conv(row))
			rep.Loaded++
		}
		if rep.Skipped > 0 {
			l.logger.Warn("corpus rows skipped",
				zap.String("source", step.name),
				zap.Int("count", rep.Skipped),
			)
		}
		l.logger.Info("corpus source loaded",
			zap.String("source", step.name),
			zap.String("kind", string(step.kind)),
			zap.Int("documents", rep.Loaded),
		)
		report.Sources = append(report.Sources, rep)
	}
	return docs, report, nil
}
