// cmd/gosquash/analyze_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-squash/internal/dedupe"
	"github.com/creativeyann17/go-squash/pkg/discover"
)

func init() {
	rootCmd.AddCommand(analyzeCmd())
}

func analyzeCmd() *cobra.Command {
	var chunkSize int
	var useGitignore bool
	var includeHidden bool

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Estimate duplicate content across the inputs",
		Long: "analyze chunks every input with content-defined chunking and reports how much " +
			"of the data is duplicated, which tells you whether deduplicating before " +
			"compression would pay off.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, report, err := discover.Collect(args, discover.Options{
				UseGitignore:  useGitignore,
				IncludeHidden: includeHidden,
			})
			if err != nil {
				return err
			}
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", e)
			}

			result, err := dedupe.Analyze(cmd.Context(), inputs, chunkSize)
			if err != nil {
				return err
			}

			fmt.Printf("Analyzed %d files:\n", result.Inputs)
			fmt.Printf("  Total:     %s in %d chunks\n", formatBytes(result.TotalBytes), result.TotalChunks)
			fmt.Printf("  Unique:    %s in %d chunks\n", formatBytes(result.UniqueBytes), result.UniqueChunks)
			fmt.Printf("  Duplicate: %s (%.1f%%)\n", formatBytes(result.DupBytes()), result.DedupRatio()*100)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0,
		fmt.Sprintf("Average chunk size in bytes (0 = %d)", dedupe.DefaultChunkSize))
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Respect .gitignore files inside directory inputs")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "Include dot-files and dot-directories")

	return cmd
}
