package generation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
)

func TestAssemblePrompt_Sections(t *testing.T) {
	p := question.Params{
		Dimension:       "creativity",
		Subcategory:     "innovation_problem_solving",
		TargetYearLevel: "2",
		NumQuestions:    3,
	}
	prompt := AssemblePrompt(sampleResults(), p, 2000)

	for _, want := range []string{
		"generate 3 high-quality assessment question(s)",
		"CONTEXT FROM EXISTING QUESTION DATABASE:",
		"Example Question (Dimension: creativity, Subcategory: innovation_problem_solving):",
		"Year 2 Expectation: Shares ideas in pairs",
		"- Primary Dimension: creativity",
		"- Question Type: Any suitable type",
		"ONLY a valid JSON array containing 3 question object(s)",
		`"collaboration_indicator": One of: "low", "medium", "high"`,
		`"question_type": One of: "collaboration_scenario", "design_task"`,
		`"target_year_level": "2"`,
		"EXAMPLE OUTPUT (generate 3 like this):",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAssemblePrompt_DefaultsWhenParamsEmpty(t *testing.T) {
	prompt := AssemblePrompt(nil, question.Params{NumQuestions: 1}, 2000)
	if !strings.Contains(prompt, "- Primary Dimension: "+question.FallbackDimension) {
		t.Error("empty dimension must be restated with its default")
	}
	if !strings.Contains(prompt, "- Additional Context: None") {
		t.Error("empty additional context must be restated as None")
	}
}

func TestBuildContext_Truncated(t *testing.T) {
	results := sampleResults()
	for range 50 {
		results = append(results, sampleResults()...)
	}
	ctx := BuildContext(results, "2", 300)
	if n := utf8.RuneCountInString(ctx); n != 300 {
		t.Errorf("expected context of 300 runes, got %d", n)
	}

	full := AssemblePrompt(results, question.Params{NumQuestions: 1}, 300)
	if !strings.Contains(full, "EXAMPLE OUTPUT") {
		t.Error("truncation must apply to the context only, not the prompt")
	}
}
