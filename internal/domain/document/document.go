package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the record set a Document was loaded from.
type Kind string

const (
	// KindQuestion is an example assessment question.
	KindQuestion Kind = "question"
	// KindTaxonomy is a dimension/subcategory taxonomy entry.
	KindTaxonomy Kind = "taxonomy"
	// KindRubric is a scoring rubric level.
	KindRubric Kind = "rubric"
)

// YearLevels is the number of per-year rubric expectations.
const YearLevels = 5

// QuestionFields holds the columns of a question row.
type QuestionFields struct {
	ID            string
	Dimension     string
	Subcategory   string
	Text          string
	QuestionType  string
	YearLevel     string
	TimeLimit     string
	Criteria      [3]string
	Collaboration string
}

// TaxonomyFields holds the columns of a taxonomy row.
type TaxonomyFields struct {
	DimensionID       string
	DimensionName     string
	DimensionWeight   string
	SubcategoryID     string
	SubcategoryName   string
	SubcategoryWeight string
	Description       string
}

// RubricFields holds the columns of a rubric row.
type RubricFields struct {
	ScoringLevel     string
	Label            string
	Description      string
	YearExpectations [YearLevels]string
}

// Document is a unit of retrievable context (immutable value object).
// Exactly one of the field sets is meaningful, selected by Kind.
type Document struct {
	kind     Kind
	question QuestionFields
	taxonomy TaxonomyFields
	rubric   RubricFields
	text     string
}

// NewQuestion creates a question document.
func NewQuestion(f QuestionFields) Document {
	d := Document{kind: KindQuestion, question: f}
	d.text = d.render()
	return d
}

// NewTaxonomy creates a taxonomy document.
func NewTaxonomy(f TaxonomyFields) Document {
	d := Document{kind: KindTaxonomy, taxonomy: f}
	d.text = d.render()
	return d
}

// NewRubric creates a rubric document.
func NewRubric(f RubricFields) Document {
	d := Document{kind: KindRubric, rubric: f}
	d.text = d.render()
	return d
}

// Kind returns the document type tag.
func (d Document) Kind() Kind { return d.kind }

// Question returns the question fields; ok is false for other kinds.
func (d Document) Question() (QuestionFields, bool) { return d.question, d.kind == KindQuestion }

// Taxonomy returns the taxonomy fields; ok is false for other kinds.
func (d Document) Taxonomy() (TaxonomyFields, bool) { return d.taxonomy, d.kind == KindTaxonomy }

// Rubric returns the rubric fields; ok is false for other kinds.
func (d Document) Rubric() (RubricFields, bool) { return d.rubric, d.kind == KindRubric }

// SearchableText returns the flattened multi-line rendering that gets embedded.
func (d Document) SearchableText() string { return d.text }

// YearExpectation returns the rubric expectation for a year level "1".."5".
func (r RubricFields) YearExpectation(year string) (string, bool) {
	n, err := strconv.Atoi(year)
	if err != nil || n < 1 || n > YearLevels {
		return "", false
	}
	return r.YearExpectations[n-1], true
}

// DimensionName returns the dimension a question or taxonomy document belongs to.
func (d Document) DimensionName() string {
	switch d.kind {
	case KindQuestion:
		return d.question.Dimension
	case KindTaxonomy:
		return d.taxonomy.DimensionName
	default:
		return ""
	}
}

// SubcategoryName returns the subcategory a question or taxonomy document belongs to.
func (d Document) SubcategoryName() string {
	switch d.kind {
	case KindQuestion:
		return d.question.Subcategory
	case KindTaxonomy:
		return d.taxonomy.SubcategoryName
	default:
		return ""
	}
}

// Categories returns the categorical values used for autocomplete.
// Empty values are omitted.
func (d Document) Categories() []string {
	var vals []string
	switch d.kind {
	case KindQuestion:
		vals = []string{d.question.Dimension, d.question.Subcategory, d.question.QuestionType}
	case KindTaxonomy:
		vals = []string{d.taxonomy.DimensionName, d.taxonomy.SubcategoryName}
	default:
		return nil
	}
	out := vals[:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// render flattens the fields into a deterministic, readable multi-line string.
func (d Document) render() string {
	var b strings.Builder
	switch d.kind {
	case KindQuestion:
		q := d.question
		fmt.Fprintf(&b, "Question: %s\n", q.Text)
		fmt.Fprintf(&b, "Dimension: %s\n", q.Dimension)
		fmt.Fprintf(&b, "Subcategory: %s\n", q.Subcategory)
		fmt.Fprintf(&b, "Type: %s\n", q.QuestionType)
		fmt.Fprintf(&b, "Year Level: %s\n", q.YearLevel)
		fmt.Fprintf(&b, "Assessment Criteria: %s\n", strings.Join(q.Criteria[:], ", "))
		fmt.Fprintf(&b, "Collaboration Level: %s", q.Collaboration)
	case KindTaxonomy:
		t := d.taxonomy
		fmt.Fprintf(&b, "Taxonomy - Dimension: %s (%s)\n", t.DimensionName, t.DimensionID)
		fmt.Fprintf(&b, "Subcategory: %s (%s)\n", t.SubcategoryName, t.SubcategoryID)
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
		fmt.Fprintf(&b, "Weight: %s", t.SubcategoryWeight)
	case KindRubric:
		r := d.rubric
		fmt.Fprintf(&b, "Rubric Level %s: %s\n", r.ScoringLevel, r.Label)
		fmt.Fprintf(&b, "Description: %s", r.Description)
		for i, exp := range r.YearExpectations {
			fmt.Fprintf(&b, "\nYear %d: %s", i+1, exp)
		}
	}
	return b.String()
}

// Summary renders the document as a prompt context excerpt.
// For rubrics, the expectation for yearLevel is appended when present.
func (d Document) Summary(yearLevel string) string {
	var b strings.Builder
	switch d.kind {
	case KindQuestion:
		q := d.question
		fmt.Fprintf(&b, "Example Question (Dimension: %s, Subcategory: %s):\n", q.Dimension, q.Subcategory)
		fmt.Fprintf(&b, "Text: %s\n", q.Text)
		fmt.Fprintf(&b, "Type: %s\n", q.QuestionType)
		fmt.Fprintf(&b, "Year Level: %s\n", q.YearLevel)
		fmt.Fprintf(&b, "Assessment Criteria: %s\n", strings.Join(q.Criteria[:], ", "))
	case KindTaxonomy:
		t := d.taxonomy
		fmt.Fprintf(&b, "Taxonomy - %s/%s:\n", t.DimensionName, t.SubcategoryName)
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	case KindRubric:
		r := d.rubric
		fmt.Fprintf(&b, "Assessment Rubric Level %s (%s):\n", r.ScoringLevel, r.Label)
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
		if exp, ok := r.YearExpectation(yearLevel); ok {
			fmt.Fprintf(&b, "Year %s Expectation: %s\n", yearLevel, exp)
		}
	}
	return b.String()
}
