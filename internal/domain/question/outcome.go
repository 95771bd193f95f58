package question

import "fmt"

// Stage is the parse stage that produced the raw candidates.
type Stage string

const (
	// StageDirect means the raw text parsed as a JSON array as-is.
	StageDirect Stage = "direct"
	// StageExtracted means the array was cut out of surrounding prose.
	StageExtracted Stage = "extracted"
	// StageFallback means a single record was synthesized from the raw text.
	StageFallback Stage = "fallback"
)

// Status summarizes an Outcome for callers.
type Status string

const (
	// StatusComplete means at least the requested number of questions survived.
	StatusComplete Status = "complete"
	// StatusPartial means some, but fewer than requested, questions survived.
	StatusPartial Status = "partial"
	// StatusFallback means the only question was synthesized from unparsable output.
	StatusFallback Status = "fallback"
	// StatusFailed means no usable question was produced.
	StatusFailed Status = "failed"
)

// Outcome is the result of one generation request. Exactly one of Questions
// (non-empty) or Error (non-nil) is set.
type Outcome struct {
	Questions     []Question
	Error         *ErrorRecord
	Requested     int
	RawCandidates int
	Rejected      int
	Stage         Stage
	// GenerationFailure describes the provider failure that forced the fallback path.
	GenerationFailure string
}

// Status classifies the outcome.
func (o Outcome) Status() Status {
	switch {
	case len(o.Questions) == 0:
		return StatusFailed
	case o.Stage == StageFallback:
		return StatusFallback
	case len(o.Questions) < o.Requested:
		return StatusPartial
	default:
		return StatusComplete
	}
}

// Message is a human readable summary of the outcome.
func (o Outcome) Message() string {
	switch o.Status() {
	case StatusFailed:
		if o.Error != nil {
			return fmt.Sprintf("no usable questions: %s", o.Error.Error)
		}
		return "no usable questions"
	case StatusFallback:
		return "generator output could not be parsed; returned fallback question"
	default:
		return fmt.Sprintf("generated %d of %d question(s)", len(o.Questions), o.Requested)
	}
}

// Records returns the caller-facing sequence: the questions, or the single
// error record. It is never empty.
func (o Outcome) Records() []any {
	if len(o.Questions) == 0 {
		rec := o.Error
		if rec == nil {
			rec = &ErrorRecord{Error: "no valid questions generated", QuestionText: PlaceholderText, Fallback: true}
		}
		return []any{rec}
	}
	out := make([]any, len(o.Questions))
	for i := range o.Questions {
		out[i] = o.Questions[i]
	}
	return out
}
