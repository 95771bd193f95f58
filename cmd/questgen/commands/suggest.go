package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the suggest command
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [partial]",
		Short: "List dimensions, subcategories and question types",
		Long: `List the categorical values found in the corpus.

Values containing the given text (case-insensitive) are printed in
sorted order. Without an argument every value is printed.`,
		Example: `  # Everything mentioning "team"
  questgen suggest team`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuggest,
	}

	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	partial := ""
	if len(args) == 1 {
		partial = args[0]
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	suggestions := sess.engine.ListSuggestions(partial)

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(w, map[string][]string{"suggestions": suggestions})
	}
	if len(suggestions) == 0 && !quiet {
		fmt.Fprintf(w, "No values match %q.\n", partial)
		return nil
	}
	_, err = fmt.Fprintln(w, strings.Join(suggestions, "\n"))
	return err
}
