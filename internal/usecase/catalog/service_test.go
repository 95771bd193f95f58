package catalog

import (
	"slices"
	"testing"

	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

func corpus() []document.Document {
	return []document.Document{
		document.NewQuestion(document.QuestionFields{
			ID: "Q1", Dimension: "creativity", Subcategory: "innovation_problem_solving", QuestionType: "design_task",
		}),
		document.NewQuestion(document.QuestionFields{
			ID: "Q2", Dimension: "collaboration", Subcategory: "team_communication", QuestionType: "",
		}),
		document.NewTaxonomy(document.TaxonomyFields{
			DimensionName: "creativity", SubcategoryName: "creative_thinking",
		}),
		document.NewRubric(document.RubricFields{ScoringLevel: "1", Label: "Beginning"}),
	}
}

func TestListSuggestions(t *testing.T) {
	svc := NewStatic(corpus())

	tests := []struct {
		name    string
		partial string
		want    []string
	}{
		{"empty matches all", "", []string{
			"collaboration", "creative_thinking", "creativity", "design_task",
			"innovation_problem_solving", "team_communication",
		}},
		{"substring", "creat", []string{"creative_thinking", "creativity"}},
		{"case insensitive", "TEAM", []string{"team_communication"}},
		{"no match", "zzz", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.ListSuggestions(tc.partial)
			if !slices.Equal(got, tc.want) {
				t.Errorf("ListSuggestions(%q) = %v, want %v", tc.partial, got, tc.want)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	got := NewStatic(corpus()).Dimensions()
	want := []string{"collaboration", "creativity"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSubcategories(t *testing.T) {
	svc := NewStatic(corpus())
	got := svc.Subcategories("Creativity")
	want := []string{"creative_thinking", "innovation_problem_solving"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(svc.Subcategories("unknown")) != 0 {
		t.Error("unknown dimension must have no subcategories")
	}
}

func TestQuestionTypes_IncludesCorpusTypes(t *testing.T) {
	got := NewStatic(corpus()).QuestionTypes()
	if !slices.Contains(got, "design_task") || !slices.Contains(got, "collaboration_scenario") {
		t.Errorf("unexpected question types %v", got)
	}
	if !slices.IsSorted(got) {
		t.Error("question types must be sorted")
	}
}

func TestListSuggestions_EmptyCorpus(t *testing.T) {
	if got := NewStatic(nil).ListSuggestions(""); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}
