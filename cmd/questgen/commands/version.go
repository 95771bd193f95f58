package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arfaouiahmed1/stage/internal/version"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if outputFormat == "json" {
				return writeJSON(w, map[string]string{
					"version": version.Version,
					"commit":  version.Commit,
					"date":    version.Date,
				})
			}
			fmt.Fprintf(w, "questgen %s\n", version.Version)
			fmt.Fprintf(w, "Commit: %s\n", version.Commit)
			fmt.Fprintf(w, "Built:  %s\n", version.Date)
			return nil
		},
	}

	return cmd
}
