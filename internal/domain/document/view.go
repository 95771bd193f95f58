package document

import "strconv"

// View is the flat serializable form of a Document used by transports.
type View struct {
	Type                   Kind              `json:"type"`
	ID                     string            `json:"id,omitempty"`
	Dimension              string            `json:"dimension,omitempty"`
	Subcategory            string            `json:"subcategory,omitempty"`
	QuestionText           string            `json:"question_text,omitempty"`
	QuestionType           string            `json:"question_type,omitempty"`
	TargetYearLevel        string            `json:"target_year_level,omitempty"`
	TimeLimitMinutes       string            `json:"time_limit_minutes,omitempty"`
	AssessmentCriteria     []string          `json:"assessment_criteria,omitempty"`
	CollaborationIndicator string            `json:"collaboration_indicator,omitempty"`
	DimensionID            string            `json:"dimension_id,omitempty"`
	DimensionWeight        string            `json:"dimension_weight,omitempty"`
	SubcategoryID          string            `json:"subcategory_id,omitempty"`
	SubcategoryWeight      string            `json:"subcategory_weight,omitempty"`
	Description            string            `json:"description,omitempty"`
	ScoringLevel           string            `json:"scoring_level,omitempty"`
	Label                  string            `json:"label,omitempty"`
	YearExpectations       map[string]string `json:"year_expectations,omitempty"`
	SearchableText         string            `json:"searchable_text"`
}

// View returns the serializable form of d.
func (d Document) View() View {
	v := View{Type: d.kind, SearchableText: d.text}
	switch d.kind {
	case KindQuestion:
		q := d.question
		v.ID = q.ID
		v.Dimension = q.Dimension
		v.Subcategory = q.Subcategory
		v.QuestionText = q.Text
		v.QuestionType = q.QuestionType
		v.TargetYearLevel = q.YearLevel
		v.TimeLimitMinutes = q.TimeLimit
		v.AssessmentCriteria = append([]string(nil), q.Criteria[:]...)
		v.CollaborationIndicator = q.Collaboration
	case KindTaxonomy:
		t := d.taxonomy
		v.DimensionID = t.DimensionID
		v.Dimension = t.DimensionName
		v.DimensionWeight = t.DimensionWeight
		v.SubcategoryID = t.SubcategoryID
		v.Subcategory = t.SubcategoryName
		v.SubcategoryWeight = t.SubcategoryWeight
		v.Description = t.Description
	case KindRubric:
		r := d.rubric
		v.ScoringLevel = r.ScoringLevel
		v.Label = r.Label
		v.Description = r.Description
		v.YearExpectations = make(map[string]string, YearLevels)
		for i, exp := range r.YearExpectations {
			v.YearExpectations["year_"+strconv.Itoa(i+1)] = exp
		}
	}
	return v
}
