package generation

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/metrics"
)

const (
	// fallbackExcerptRunes bounds the question_text of a synthesized record.
	fallbackExcerptRunes = 500
	// rawExcerptRunes bounds the raw_response carried by an error record.
	rawExcerptRunes = 200
)

// ValidationRequest carries what the validator needs besides the raw text.
type ValidationRequest struct {
	Defaults   question.Defaults
	Provenance question.Provenance
	Requested  int
}

// Validator turns raw generator text into validated questions.
// It never returns an empty Outcome: either questions or one error record.
type Validator struct {
	newID  func() string
	logger *zap.Logger
}

// NewValidator creates a Validator that assigns gen_<uuid> identifiers.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		newID:  func() string { return "gen_" + uuid.NewString() },
		logger: logger,
	}
}

// Validate parses raw with the three-stage chain (direct, extracted, fallback)
// and validates every candidate.
func (v *Validator) Validate(raw string, req ValidationRequest) question.Outcome {
	text := strings.TrimSpace(raw)
	out := question.Outcome{Requested: req.Requested}

	candidates, stage := parseCandidates(text)
	out.Stage = stage

	if stage == question.StageFallback {
		v.logger.Warn("Generator output is not a JSON array, synthesizing fallback question",
			zap.Int("raw_length", len(text)),
		)
		if q, ok := v.fallbackQuestion(text, req); ok {
			out.RawCandidates = 1
			out.Questions = []question.Question{q}
			metrics.ValidatorCandidatesTotal.WithLabelValues("fallback").Inc()
			return out
		}
		out.RawCandidates = 1
		out.Rejected = 1
		metrics.ValidatorCandidatesTotal.WithLabelValues(string(question.RejectPlaceholder)).Inc()
		out.Error = errorRecord(text, out.Rejected)
		return out
	}

	out.RawCandidates = len(candidates)
	for i, c := range candidates {
		verdict := v.classify(c, req)
		q, ok := verdict.Question()
		if !ok {
			out.Rejected++
			metrics.ValidatorCandidatesTotal.WithLabelValues(string(verdict.Reason())).Inc()
			v.logger.Warn("Generated candidate rejected",
				zap.Int("candidate", i),
				zap.String("reason", string(verdict.Reason())),
			)
			continue
		}
		metrics.ValidatorCandidatesTotal.WithLabelValues("accepted").Inc()
		out.Questions = append(out.Questions, q)
	}

	if len(out.Questions) == 0 {
		v.logger.Warn("No valid questions generated",
			zap.Int("raw_candidates", out.RawCandidates),
			zap.Int("rejected", out.Rejected),
			zap.String("stage", string(stage)),
		)
		out.Error = errorRecord(text, out.Rejected)
	}
	return out
}

// parseCandidates runs the direct and extraction stages. When both fail it
// reports StageFallback with no candidates.
func parseCandidates(text string) ([]json.RawMessage, question.Stage) {
	if strings.HasPrefix(text, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(text), &arr); err == nil {
			return arr, question.StageDirect
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(text[start:end+1]), &arr); err == nil {
			return arr, question.StageExtracted
		}
	}

	return nil, question.StageFallback
}

// classify validates one raw candidate into an accepted question or a rejection.
func (v *Validator) classify(c json.RawMessage, req ValidationRequest) question.Verdict {
	c = bytes.TrimSpace(c)
	if len(c) == 0 || c[0] != '{' {
		return question.Reject(question.RejectNotObject)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c, &fields); err != nil {
		return question.Reject(question.RejectNotObject)
	}

	rawText, ok := fields["question_text"]
	if !ok {
		return question.Reject(question.RejectMissingText)
	}
	var text string
	if err := json.Unmarshal(rawText, &text); err != nil {
		return question.Reject(question.RejectMissingText)
	}
	text = strings.TrimSpace(text)
	if isPlaceholder(text) {
		return question.Reject(question.RejectPlaceholder)
	}
	if utf8.RuneCountInString(text) < question.MinTextLength {
		return question.Reject(question.RejectTooShort)
	}

	d := req.Defaults
	return question.Accept(question.Question{
		ID:                     v.newID(),
		QuestionText:           text,
		QuestionType:           stringField(fields, "question_type", d.QuestionType),
		TimeLimitMinutes:       intField(fields, "time_limit_minutes", d.TimeLimitMinutes),
		TargetYearLevel:        stringField(fields, "target_year_level", d.TargetYearLevel),
		Dimension:              stringField(fields, "dimension", d.Dimension),
		Subcategory:            stringField(fields, "subcategory", d.Subcategory),
		AssessmentCriteria1:    stringField(fields, "assessment_criteria_1", d.Criteria[0]),
		AssessmentCriteria2:    stringField(fields, "assessment_criteria_2", d.Criteria[1]),
		AssessmentCriteria3:    stringField(fields, "assessment_criteria_3", d.Criteria[2]),
		CollaborationIndicator: stringField(fields, "collaboration_indicator", d.Collaboration),
		Provenance:             req.Provenance,
	})
}

// fallbackQuestion synthesizes the single record of the fallback stage. The
// minimum length does not apply; blank or placeholder text yields no record.
func (v *Validator) fallbackQuestion(text string, req ValidationRequest) (question.Question, bool) {
	excerpt := strings.TrimSpace(truncateRunes(text, fallbackExcerptRunes))
	if isPlaceholder(excerpt) {
		return question.Question{}, false
	}
	d := req.Defaults
	return question.Question{
		ID:                     v.newID(),
		QuestionText:           excerpt,
		QuestionType:           d.QuestionType,
		TimeLimitMinutes:       d.TimeLimitMinutes,
		TargetYearLevel:        d.TargetYearLevel,
		Dimension:              d.Dimension,
		Subcategory:            d.Subcategory,
		AssessmentCriteria1:    d.Criteria[0],
		AssessmentCriteria2:    d.Criteria[1],
		AssessmentCriteria3:    d.Criteria[2],
		CollaborationIndicator: d.Collaboration,
		Fallback:               true,
		Provenance:             req.Provenance,
	}, true
}

func errorRecord(text string, rejected int) *question.ErrorRecord {
	return &question.ErrorRecord{
		Error:         "no valid questions generated",
		QuestionText:  question.PlaceholderText,
		Fallback:      true,
		RejectedCount: rejected,
		RawResponse:   truncateRunes(text, rawExcerptRunes),
	}
}

func isPlaceholder(s string) bool {
	return slices.Contains(question.Placeholders, s)
}

// stringField returns the candidate's value for key coerced to a string, or
// def when it is missing, null, blank or a placeholder.
func stringField(fields map[string]json.RawMessage, key, def string) string {
	raw, ok := fields[key]
	if !ok {
		return def
	}
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		return def
	}
	var s string
	switch x := val.(type) {
	case string:
		s = strings.TrimSpace(x)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		return def
	}
	if isPlaceholder(s) {
		return def
	}
	return s
}

// intField returns the candidate's value for key as an integer. Numbers are
// truncated toward zero and numeric strings parsed; anything else yields def.
// Present out-of-range values are kept.
func intField(fields map[string]json.RawMessage, key string, def int) int {
	raw, ok := fields[key]
	if !ok {
		return def
	}
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		return def
	}
	switch x := val.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) > math.MaxInt32 {
			return def
		}
		return int(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && math.Abs(f) <= math.MaxInt32 {
			return int(f)
		}
		return def
	default:
		return def
	}
}
