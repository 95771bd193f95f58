package question

// Question is a validated generated question.
type Question struct {
	ID                     string     `json:"generated_id"`
	QuestionText           string     `json:"question_text"`
	QuestionType           string     `json:"question_type"`
	TimeLimitMinutes       int        `json:"time_limit_minutes"`
	TargetYearLevel        string     `json:"target_year_level"`
	Dimension              string     `json:"dimension"`
	Subcategory            string     `json:"subcategory"`
	AssessmentCriteria1    string     `json:"assessment_criteria_1"`
	AssessmentCriteria2    string     `json:"assessment_criteria_2"`
	AssessmentCriteria3    string     `json:"assessment_criteria_3"`
	CollaborationIndicator string     `json:"collaboration_indicator"`
	Fallback               bool       `json:"fallback,omitempty"`
	Provenance             Provenance `json:"generation_context"`
}

// Provenance records how a question was generated.
type Provenance struct {
	Query              string  `json:"query"`
	RetrievedDocCount  int     `json:"relevant_docs_count"`
	TopSimilarityScore float64 `json:"top_similarity_score"`
}

// ErrorRecord is returned in place of questions when nothing usable was produced.
type ErrorRecord struct {
	Error         string `json:"error"`
	QuestionText  string `json:"question_text"`
	Fallback      bool   `json:"fallback"`
	RejectedCount int    `json:"rejected_count"`
	RawResponse   string `json:"raw_response"`
}

// PlaceholderText is the question_text carried by an ErrorRecord.
const PlaceholderText = "N/A"

// MinTextLength is the minimum question_text length, in runes, after trimming.
const MinTextLength = 20

// Placeholders are question_text values that never count as a question.
var Placeholders = []string{"", "N/A", "null", "None"}

// RejectReason explains why a raw candidate was dropped.
type RejectReason string

const (
	// RejectNotObject means the array element was not a JSON object.
	RejectNotObject RejectReason = "not_object"
	// RejectMissingText means question_text was absent or not a string.
	RejectMissingText RejectReason = "missing_text"
	// RejectPlaceholder means question_text was a placeholder sentinel.
	RejectPlaceholder RejectReason = "placeholder_text"
	// RejectTooShort means question_text was below MinTextLength.
	RejectTooShort RejectReason = "too_short"
)

// Verdict is the outcome of validating one raw candidate: either an accepted
// Question or a rejection reason, never both.
type Verdict struct {
	question Question
	reason   RejectReason
}

// Accept creates an accepting verdict.
func Accept(q Question) Verdict { return Verdict{question: q} }

// Reject creates a rejecting verdict.
func Reject(reason RejectReason) Verdict { return Verdict{reason: reason} }

// Question returns the accepted question; ok is false for a rejection.
func (v Verdict) Question() (Question, bool) { return v.question, v.reason == "" }

// Reason returns the rejection reason, empty when accepted.
func (v Verdict) Reason() RejectReason { return v.reason }
