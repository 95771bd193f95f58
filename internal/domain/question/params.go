package question

import (
	"fmt"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

// MaxNumQuestions caps a single generation request.
const MaxNumQuestions = 10

// defaultQuery is used when a request carries no structured fields at all.
const defaultQuery = "programming education assessment question"

// Params are the structured generation parameters. All fields except
// NumQuestions are optional.
type Params struct {
	Dimension         string `json:"dimension,omitempty"`
	Subcategory       string `json:"subcategory,omitempty"`
	QuestionType      string `json:"question_type,omitempty"`
	TargetYearLevel   string `json:"target_year_level,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
	NumQuestions      int    `json:"num_questions"`
}

// Normalize trims every field, defaults NumQuestions to 1 and validates the range.
func (p Params) Normalize() (Params, error) {
	p.Dimension = strings.TrimSpace(p.Dimension)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
	p.QuestionType = strings.TrimSpace(p.QuestionType)
	p.TargetYearLevel = strings.TrimSpace(p.TargetYearLevel)
	p.AdditionalContext = strings.TrimSpace(p.AdditionalContext)

	if p.NumQuestions == 0 {
		p.NumQuestions = 1
	}
	if p.NumQuestions < 1 || p.NumQuestions > MaxNumQuestions {
		return Params{}, fmt.Errorf("%w: num_questions must be between 1 and %d, got %d",
			domain.ErrInvalidRequest, MaxNumQuestions, p.NumQuestions)
	}
	return p, nil
}

// Query builds the free-text retrieval query from the structured fields.
func (p Params) Query() string {
	var parts []string
	if p.Dimension != "" {
		parts = append(parts, "dimension: "+p.Dimension)
	}
	if p.Subcategory != "" {
		parts = append(parts, "subcategory: "+p.Subcategory)
	}
	if p.QuestionType != "" {
		parts = append(parts, "question type: "+p.QuestionType)
	}
	if p.TargetYearLevel != "" {
		parts = append(parts, "year level: "+p.TargetYearLevel)
	}
	if p.AdditionalContext != "" {
		parts = append(parts, p.AdditionalContext)
	}
	if len(parts) == 0 {
		return defaultQuery
	}
	return strings.Join(parts, " ")
}

// Defaults resolves the field defaults for this request: request value first,
// hardcoded fallback otherwise.
func (p Params) Defaults() Defaults {
	d := FallbackDefaults()
	if p.QuestionType != "" {
		d.QuestionType = p.QuestionType
	}
	if p.TargetYearLevel != "" {
		d.TargetYearLevel = p.TargetYearLevel
	}
	if p.Dimension != "" {
		d.Dimension = p.Dimension
	}
	if p.Subcategory != "" {
		d.Subcategory = p.Subcategory
	}
	return d
}
