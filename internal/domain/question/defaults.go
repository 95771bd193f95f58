package question

// Hardcoded fallbacks used when neither the model nor the request supplies a value.
const (
	FallbackQuestionType  = "collaboration_scenario"
	FallbackTimeLimit     = 15
	FallbackYearLevel     = "1-3"
	FallbackDimension     = "creativity"
	FallbackSubcategory   = "innovation_problem_solving"
	FallbackCriteria1     = "problem_solving_approach"
	FallbackCriteria2     = "creativity_level"
	FallbackCriteria3     = "technical_accuracy"
	FallbackCollaboration = "medium"
)

// QuestionTypes are the values the generator is asked to choose from.
var QuestionTypes = []string{
	"collaboration_scenario",
	"design_task",
	"problem_solving",
	"presentation_task",
	"analysis_task",
}

// CollaborationLevels are the allowed collaboration_indicator values.
var CollaborationLevels = []string{"low", "medium", "high"}

// Defaults fills every metadata field a candidate omits.
type Defaults struct {
	QuestionType     string
	TimeLimitMinutes int
	TargetYearLevel  string
	Dimension        string
	Subcategory      string
	Criteria         [3]string
	Collaboration    string
}

// FallbackDefaults returns the hardcoded defaults.
func FallbackDefaults() Defaults {
	return Defaults{
		QuestionType:     FallbackQuestionType,
		TimeLimitMinutes: FallbackTimeLimit,
		TargetYearLevel:  FallbackYearLevel,
		Dimension:        FallbackDimension,
		Subcategory:      FallbackSubcategory,
		Criteria:         [3]string{FallbackCriteria1, FallbackCriteria2, FallbackCriteria3},
		Collaboration:    FallbackCollaboration,
	}
}
