package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arfaouiahmed1/stage/internal/app"
)

var searchTopK int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Retrieve the corpus entries most similar to a query",
		Long: `Retrieve the corpus entries most similar to a query.

Shows the context the generator would receive for the same query,
ranked by cosine similarity.`,
		Example: `  # Top entries for a free-text query
  questgen search "team debugging exercise"

  # Top 3 as JSON
  questgen search "creative design" -k 3 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default: retrieval.top_k from config)")

	return cmd
}

type searchItem struct {
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	Type      string  `json:"type"`
	Dimension string  `json:"dimension,omitempty"`
	Text      string  `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchTopK < 0 {
		return fmt.Errorf("--top-k must not be negative, got %d", searchTopK)
	}
	topK := app.DefaultTopK
	if cmd.Flags().Changed("top-k") {
		topK = searchTopK
	}
	query := strings.Join(args, " ")

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	results, err := sess.engine.RetrieveContext(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	items := make([]searchItem, len(results))
	for i, r := range results {
		d := r.Document()
		items[i] = searchItem{
			Rank:      r.Rank(),
			Score:     r.Score(),
			Type:      string(d.Kind()),
			Dimension: d.DimensionName(),
			Text:      d.SearchableText(),
		}
	}

	w := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(w, map[string]any{"query": query, "results": items})
	}

	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(w, "No results.")
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tTYPE\tDIMENSION\tTEXT")
	for _, it := range items {
		text := strings.Join(strings.Fields(it.Text), " ")
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%s\t%s\n", it.Rank, it.Score, it.Type, it.Dimension, truncate(text, 70))
	}
	return tw.Flush()
}
