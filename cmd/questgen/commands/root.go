// Package commands implements the questgen command line interface.
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Global flags shared by every command.
var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questgen",
		Short: "Retrieval-augmented assessment question generator",
		Long: `questgen generates programming education assessment questions.

It indexes a corpus of example questions, a competency taxonomy and a
scoring rubric, retrieves the entries most similar to a request and asks
a language model for new questions grounded in them. Every generated
question is validated and repaired before it is returned.

Configuration is read from config/<ENV>.yaml (ENV defaults to "local")
or from the file given with --config. A .env file is loaded if present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return errors.New("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "text", "json":
			default:
				return fmt.Errorf("unknown --format %q (want text or json)", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text or json")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(
		NewServeCmd(),
		NewMCPCmd(),
		NewGenerateCmd(),
		NewSearchCmd(),
		NewSuggestCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
