package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arfaouiahmed1/stage/internal/domain/question"
)

var (
	genDimension   string
	genSubcategory string
	genType        string
	genYear        string
	genCount       int
	genContext     string
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate assessment questions",
		Long: `Generate assessment questions grounded in the corpus.

Every field is optional. The request is turned into a retrieval query,
the most similar corpus entries are passed to the language model as
context and each returned question is validated and repaired.

Exits non-zero when no usable question was produced.`,
		Example: `  # Two creativity questions for second year students
  questgen generate --dimension creativity --year 2 -n 2

  # JSON output for scripts
  questgen generate --dimension collaboration --type design_task --format json`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVarP(&genDimension, "dimension", "d", "", "assessment dimension")
	cmd.Flags().StringVarP(&genSubcategory, "subcategory", "s", "", "subcategory within the dimension")
	cmd.Flags().StringVarP(&genType, "type", "t", "", "question type ("+strings.Join(question.QuestionTypes, ", ")+")")
	cmd.Flags().StringVarP(&genYear, "year", "y", "", "target year level (1-5)")
	cmd.Flags().IntVarP(&genCount, "count", "n", 1, fmt.Sprintf("number of questions (1-%d)", question.MaxNumQuestions))
	cmd.Flags().StringVar(&genContext, "context", "", "additional guidance for the generator")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genCount < 1 || genCount > question.MaxNumQuestions {
		return fmt.Errorf("--count must be between 1 and %d, got %d", question.MaxNumQuestions, genCount)
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	out, err := sess.engine.GenerateQuestions(cmd.Context(), question.Params{
		Dimension:         genDimension,
		Subcategory:       genSubcategory,
		QuestionType:      genType,
		TargetYearLevel:   genYear,
		AdditionalContext: genContext,
		NumQuestions:      genCount,
	})
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := writeJSON(w, map[string]any{
			"questions": out.Records(),
			"status":    out.Status(),
			"message":   out.Message(),
		}); err != nil {
			return err
		}
	} else {
		printOutcome(w, out)
	}

	if out.Status() == question.StatusFailed {
		return fmt.Errorf("%s", out.Message())
	}
	return nil
}

func printOutcome(w io.Writer, out question.Outcome) {
	if !quiet {
		fmt.Fprintf(w, "%s\n\n", out.Message())
	}
	if out.Error != nil {
		fmt.Fprintf(w, "error: %s\n", out.Error.Error)
		if out.Error.RawResponse != "" {
			fmt.Fprintf(w, "raw response: %s\n", truncate(out.Error.RawResponse, 200))
		}
		return
	}
	for i, q := range out.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.QuestionText)
		fmt.Fprintf(w, "   type: %s | year: %s | %d min | collaboration: %s\n",
			q.QuestionType, q.TargetYearLevel, q.TimeLimitMinutes, q.CollaborationIndicator)
		fmt.Fprintf(w, "   %s / %s\n", q.Dimension, q.Subcategory)
		for _, c := range []string{q.AssessmentCriteria1, q.AssessmentCriteria2, q.AssessmentCriteria3} {
			if c != "" {
				fmt.Fprintf(w, "   - %s\n", c)
			}
		}
		if verbose {
			fmt.Fprintf(w, "   id: %s (query %q, %d docs, top score %.3f)\n",
				q.ID, q.Provenance.Query, q.Provenance.RetrievedDocCount, q.Provenance.TopSimilarityScore)
		}
		fmt.Fprintln(w)
	}
}
