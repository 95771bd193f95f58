package generation

import (
	"fmt"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
	"github.com/arfaouiahmed1/stage/internal/domain/search/result"
)

const contextHeader = "CONTEXT FROM EXISTING QUESTION DATABASE:\n\n"

// exampleQuestionText is the worked example shown to the model.
const exampleQuestionText = "Your team is developing a React web application for a local restaurant to manage " +
	"their online menu and orders. The restaurant owner wants customers to be able to browse the menu, " +
	"add items to a cart, and submit orders. However, the team has discovered that the current design " +
	"doesn't work well on mobile devices, and the owner has requested that the application be fully " +
	"responsive. Design and explain your approach to making this application mobile-friendly while " +
	"maintaining all functionality."

// BuildContext renders the retrieved documents as a context excerpt of at most maxChars runes.
func BuildContext(docs []result.Result, yearLevel string, maxChars int) string {
	var b strings.Builder
	b.WriteString(contextHeader)
	for _, r := range docs {
		b.WriteString(r.Document().Summary(yearLevel))
		b.WriteString("\n")
	}
	return truncateRunes(b.String(), maxChars)
}

// AssemblePrompt builds the single instruction prompt for a generation request.
// Only the context excerpt is truncated, so the prompt size stays predictable.
func AssemblePrompt(docs []result.Result, p question.Params, contextChars int) string {
	d := p.Defaults()
	n := p.NumQuestions

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert educational assessment designer specializing in programming education. "+
		"Your task is to generate %d high-quality assessment question(s).\n\n", n)

	b.WriteString("REFERENCE CONTEXT:\n")
	b.WriteString(BuildContext(docs, p.TargetYearLevel, contextChars))
	b.WriteString("\n\n")

	b.WriteString("GENERATION REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Primary Dimension: %s\n", d.Dimension)
	fmt.Fprintf(&b, "- Subcategory: %s\n", d.Subcategory)
	fmt.Fprintf(&b, "- Target Year Level: %s\n", d.TargetYearLevel)
	fmt.Fprintf(&b, "- Question Type: %s\n", orDefault(p.QuestionType, "Any suitable type"))
	fmt.Fprintf(&b, "- Additional Context: %s\n\n", orDefault(p.AdditionalContext, "None"))

	b.WriteString("OUTPUT FORMAT:\n")
	fmt.Fprintf(&b, "You MUST respond with ONLY a valid JSON array containing %d question object(s). "+
		"No explanatory text before or after.\n\n", n)

	b.WriteString("Each question object must contain these exact fields:\n")
	b.WriteString("- \"question_text\": A detailed, clear question (minimum 50 characters)\n")
	fmt.Fprintf(&b, "- \"question_type\": One of: %s\n", quoteList(question.QuestionTypes))
	b.WriteString("- \"time_limit_minutes\": Integer between 10-30\n")
	fmt.Fprintf(&b, "- \"target_year_level\": %q\n", d.TargetYearLevel)
	fmt.Fprintf(&b, "- \"dimension\": %q\n", d.Dimension)
	fmt.Fprintf(&b, "- \"subcategory\": %q\n", d.Subcategory)
	b.WriteString("- \"assessment_criteria_1\": String describing first assessment criterion\n")
	b.WriteString("- \"assessment_criteria_2\": String describing second assessment criterion\n")
	b.WriteString("- \"assessment_criteria_3\": String describing third assessment criterion\n")
	fmt.Fprintf(&b, "- \"collaboration_indicator\": One of: %s\n\n", quoteList(question.CollaborationLevels))

	fmt.Fprintf(&b, "EXAMPLE OUTPUT (generate %d like this):\n", n)
	b.WriteString("[\n  {\n")
	fmt.Fprintf(&b, "    \"question_text\": %q,\n", exampleQuestionText)
	b.WriteString("    \"question_type\": \"collaboration_scenario\",\n")
	b.WriteString("    \"time_limit_minutes\": 20,\n")
	fmt.Fprintf(&b, "    \"target_year_level\": %q,\n", d.TargetYearLevel)
	fmt.Fprintf(&b, "    \"dimension\": %q,\n", d.Dimension)
	fmt.Fprintf(&b, "    \"subcategory\": %q,\n", d.Subcategory)
	b.WriteString("    \"assessment_criteria_1\": \"responsive_design_implementation\",\n")
	b.WriteString("    \"assessment_criteria_2\": \"team_communication_process\",\n")
	b.WriteString("    \"assessment_criteria_3\": \"user_experience_consideration\",\n")
	b.WriteString("    \"collaboration_indicator\": \"medium\"\n")
	b.WriteString("  }\n]")

	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func quoteList(vals []string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

// truncateRunes cuts s to at most n runes. n <= 0 disables truncation.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
