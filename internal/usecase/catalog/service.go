// Package catalog answers categorical lookups over the loaded corpus:
// autocomplete suggestions, dimensions, subcategories and question types.
package catalog

import (
	"slices"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
)

// Service reads categorical values from the corpus on every call,
// so a republished index is picked up without a restart.
type Service struct {
	docs DocumentSource
}

// New creates a catalog service.
func New(docs DocumentSource) *Service {
	return &Service{docs: docs}
}

// ListSuggestions returns the sorted distinct categorical values whose
// lowercase form contains the lowercase partial. An empty partial matches all.
func (s *Service) ListSuggestions(partial string) []string {
	needle := strings.ToLower(strings.TrimSpace(partial))
	set := make(map[string]struct{})
	for _, d := range s.docs.Documents() {
		for _, v := range d.Categories() {
			if needle == "" || strings.Contains(strings.ToLower(v), needle) {
				set[v] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// Dimensions returns the distinct dimensions of question and taxonomy documents.
func (s *Service) Dimensions() []string {
	set := make(map[string]struct{})
	for _, d := range s.docs.Documents() {
		if v := d.DimensionName(); v != "" {
			set[v] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Subcategories returns the distinct subcategories filed under dimension.
// Matching is case-insensitive.
func (s *Service) Subcategories(dimension string) []string {
	dimension = strings.TrimSpace(dimension)
	set := make(map[string]struct{})
	for _, d := range s.docs.Documents() {
		if !strings.EqualFold(d.DimensionName(), dimension) {
			continue
		}
		if v := d.SubcategoryName(); v != "" {
			set[v] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// QuestionTypes returns the known question types plus any others found in the corpus.
func (s *Service) QuestionTypes() []string {
	set := make(map[string]struct{}, len(question.QuestionTypes))
	for _, t := range question.QuestionTypes {
		set[t] = struct{}{}
	}
	for _, d := range s.docs.Documents() {
		if q, ok := d.Question(); ok && q.QuestionType != "" {
			set[q.QuestionType] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
