package generation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain/document"
	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
)

type stubRetriever struct {
	results   []result.Result
	err       error
	lastQuery string
	lastTopK  int
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, topK int) ([]result.Result, error) {
	s.lastQuery = query
	s.lastTopK = topK
	return s.results, s.err
}

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

// newTestValidator returns a validator with sequential ids gen_1, gen_2, ...
func newTestValidator() *Validator {
	n := 0
	v := NewValidator(zap.NewNop())
	v.newID = func() string {
		n++
		return fmt.Sprintf("gen_%d", n)
	}
	return v
}

func testRequest() ValidationRequest {
	return ValidationRequest{
		Defaults:   question.Params{Dimension: "creativity", TargetYearLevel: "2"}.Defaults(),
		Provenance: question.Provenance{Query: "q", RetrievedDocCount: 3, TopSimilarityScore: 0.8},
		Requested:  2,
	}
}

func sampleResults() []result.Result {
	q := document.NewQuestion(document.QuestionFields{
		ID: "Q1", Dimension: "creativity", Subcategory: "innovation_problem_solving",
		Text: "Propose a creative approach to a team project", QuestionType: "design_task", YearLevel: "2",
		Criteria: [3]string{"originality", "feasibility", "clarity"},
	})
	r := document.NewRubric(document.RubricFields{
		ScoringLevel: "3", Label: "Proficient", Description: "Works well with others",
		YearExpectations: [document.YearLevels]string{"y1", "Shares ideas in pairs", "y3", "y4", "y5"},
	})
	return []result.Result{result.New(q, 0.91, 1), result.New(r, 0.42, 2)}
}

const twoValidQuestions = `[
  {
    "question_text": "Your team must design a mobile app that helps students form study groups.",
    "question_type": "design_task",
    "time_limit_minutes": 20,
    "target_year_level": "2",
    "dimension": "creativity",
    "subcategory": "innovation_problem_solving",
    "assessment_criteria_1": "originality",
    "assessment_criteria_2": "feasibility",
    "assessment_criteria_3": "clarity",
    "collaboration_indicator": "high"
  },
  {
    "question_text": "Propose an unconventional way to debug a failing integration test as a team.",
    "question_type": "problem_solving",
    "time_limit_minutes": 15,
    "target_year_level": "2",
    "dimension": "creativity",
    "subcategory": "innovation_problem_solving",
    "assessment_criteria_1": "approach",
    "assessment_criteria_2": "creativity_level",
    "assessment_criteria_3": "technical_accuracy",
    "collaboration_indicator": "medium"
  }
]`
