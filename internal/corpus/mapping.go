package corpus

import (
	"strconv"

	"github.com/arfaouiahmed1/stage/internal/domain/document"
)

func questionFromRow(r Row) document.Document {
	return document.NewQuestion(document.QuestionFields{
		ID:           r.Get("question_id"),
		Dimension:    r.Get("dimension"),
		Subcategory:  r.Get("subcategory"),
		Text:         r.Get("question_text"),
		QuestionType: r.Get("question_type"),
		YearLevel:    r.Get("target_year_level"),
		TimeLimit:    r.Get("time_limit_minutes"),
		Criteria: [3]string{
			r.Get("assessment_criteria_1"),
			r.Get("assessment_criteria_2"),
			r.Get("assessment_criteria_3"),
		},
		Collaboration: r.Get("collaboration_indicator"),
	})
}

func taxonomyFromRow(r Row) document.Document {
	return document.NewTaxonomy(document.TaxonomyFields{
		DimensionID:       r.Get("dimension_id"),
		DimensionName:     r.Get("dimension_name"),
		DimensionWeight:   r.Get("dimension_weight"),
		SubcategoryID:     r.Get("subcategory_id"),
		SubcategoryName:   r.Get("subcategory_name"),
		SubcategoryWeight: r.Get("subcategory_weight"),
		Description:       r.Get("subcategory_description"),
	})
}

func rubricFromRow(r Row) document.Document {
	var years [document.YearLevels]string
	for i := range years {
		years[i] = r.Get("year_" + strconv.Itoa(i+1) + "_expectation")
	}
	return document.NewRubric(document.RubricFields{
		ScoringLevel:     r.Get("scoring_level"),
		Label:            r.Get("label"),
		Description:      r.Get("description"),
		YearExpectations: years,
	})
}

// blank reports whether every cell of the row is empty.
func blank(r Row) bool {
	for k := range r {
		if r.Get(k) != "" {
			return false
		}
	}
	return true
}
