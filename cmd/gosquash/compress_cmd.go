// cmd/gosquash/compress_cmd.go

package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-squash/pkg/atomicfile"
	"github.com/creativeyann17/go-squash/pkg/codec"
	"github.com/creativeyann17/go-squash/pkg/discover"
	"github.com/creativeyann17/go-squash/pkg/squash"
)

func init() {
	rootCmd.AddCommand(compressCmd())
}

func compressCmd() *cobra.Command {
	var outputDir string
	var codecNames []string
	var optionalNames []string
	var maxWorkers int
	var maxBytes int64
	var overwrite string
	var keepStructure bool
	var useGitignore bool
	var includeHidden bool
	var failFast bool
	var verify bool
	var dryRun bool
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "compress [paths...]",
		Short: "Compress files with several codecs side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := parseAlgorithms(codecNames, optionalNames)
			if err != nil {
				return err
			}

			var cfg squash.ItemConfig
			if len(specs) == 0 {
				cfg = squash.DefaultItemConfig()
			} else {
				cfg, err = squash.NewItemConfig(squash.NewAlgorithmSet(specs...), maxBytes)
				if err != nil {
					return err
				}
			}

			policy, err := parsePolicy(overwrite)
			if err != nil {
				return err
			}

			inputs, report, err := discover.Collect(args, discover.Options{
				UseGitignore:  useGitignore,
				IncludeHidden: includeHidden,
			})
			if err != nil {
				return err
			}
			for _, e := range report.Errors {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
			}

			log := func(format string, a ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", a...)
				}
			}

			log("Compressing %d files with %d codecs...", len(inputs), cfg.Algorithms().Len())
			log("  Output:  %s", outputDir)
			log("  Workers: %d", maxWorkers)
			if dryRun {
				log("  Mode:    DRY-RUN (nothing written)")
			}
			log("")

			opts := squash.Options{
				FailFast:   failFast,
				MaxWorkers: maxWorkers,
				Verify:     verify,
				DryRun:     dryRun,
			}
			if !quiet {
				cb, container := squash.ProgressBarCallback()
				opts.Progress = cb
				defer container.Wait()
			}

			target := squash.Directory{
				Path:                outputDir,
				KeepSourceStructure: keepStructure,
				Policy:              policy,
				AtomicAll:           true,
			}

			start := time.Now()
			result, err := squash.Run(cmd.Context(), inputs, func(string) squash.ItemConfig { return cfg }, target, opts)
			if err != nil {
				return err
			}

			printSummary(result, time.Since(start), verbose, dryRun)

			if failed := result.Failed(); failed > 0 {
				return fmt.Errorf("finished with %d failed items", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().StringSliceVarP(&codecNames, "codec", "c", nil,
		"Codec to run, optionally with level (e.g. zstd=19, gzip). Repeatable; default: all registered codecs")
	cmd.Flags().StringSliceVar(&optionalNames, "optional", nil,
		"Codec whose failure does not fail the item (same syntax as --codec)")
	cmd.Flags().IntVarP(&maxWorkers, "threads", "t", runtime.NumCPU(), "Max concurrent items")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "Per-item size ceiling in bytes (0 = unlimited)")
	cmd.Flags().StringVar(&overwrite, "overwrite", "fail", "Existing-target policy: fail, skip or replace")
	cmd.Flags().BoolVar(&keepStructure, "keep-structure", false, "Mirror source directory layout under the output directory")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Respect .gitignore files inside directory inputs")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "Include dot-files and dot-directories")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Abort the whole batch on the first error")
	cmd.Flags().BoolVar(&verify, "verify", false, "Decompress each output and check it against the original")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Measure compression without writing anything")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show per-item results")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	return cmd
}

// parseAlgorithms turns "zstd=19" style flags into validated specs
func parseAlgorithms(required, optional []string) ([]squash.AlgorithmSpec, error) {
	var specs []squash.AlgorithmSpec

	add := func(raw string, opt bool) error {
		name, level := raw, squash.LevelDefault
		if i := strings.IndexByte(raw, '='); i >= 0 {
			name = raw[:i]
			n, err := strconv.Atoi(raw[i+1:])
			if err != nil {
				return fmt.Errorf("codec %q: invalid level %q", name, raw[i+1:])
			}
			level = n
		}
		id, err := codec.Parse(name)
		if err != nil {
			return err
		}
		var spec squash.AlgorithmSpec
		if opt {
			spec, err = squash.NewOptionalSpec(id, level)
		} else {
			spec, err = squash.NewSpec(id, level)
		}
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		return nil
	}

	for _, raw := range required {
		if err := add(raw, false); err != nil {
			return nil, err
		}
	}
	for _, raw := range optional {
		if err := add(raw, true); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func parsePolicy(s string) (atomicfile.Policy, error) {
	switch s {
	case "fail":
		return atomicfile.Fail, nil
	case "skip":
		return atomicfile.Skip, nil
	case "replace":
		return atomicfile.Replace, nil
	default:
		return 0, fmt.Errorf("unknown overwrite policy %q (want fail, skip or replace)", s)
	}
}

func printSummary(result *squash.BatchResult, elapsed time.Duration, verbose, dryRun bool) {
	summary := squash.Aggregate(result)

	if verbose {
		for _, item := range result.Items() {
			status := "ok"
			if !item.Success() {
				status = "FAILED"
			}
			fmt.Printf("  %-40s %s\n", item.ID, status)
			for _, id := range item.Codecs() {
				cr := item.PerCodec[id]
				if cr.Err != nil {
					fmt.Printf("    %-8s error: %v\n", id, cr.Err)
					continue
				}
				fmt.Printf("    %-8s %s (%.1f%%) in %s\n",
					id, formatBytes(cr.CompressedSize), cr.Ratio(item.OriginalSize), cr.Elapsed.Round(time.Millisecond))
			}
		}
		fmt.Println()
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Items:         %d / %d succeeded\n", summary.Succeeded, summary.Items)
	fmt.Printf("  Original size: %s\n", formatBytes(summary.OriginalBytes))
	fmt.Printf("  Elapsed:       %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	fmt.Printf("  %-8s %10s %10s %8s %8s %8s %10s\n",
		"codec", "ok/tried", "out", "mean%", "p50%", "p95%", "saved")
	for _, cs := range summary.PerCodec {
		fmt.Printf("  %-8s %6d/%-3d %10s %7.1f%% %7.1f%% %7.1f%% %10s\n",
			cs.Codec, cs.Successes, cs.Attempts, formatBytes(cs.BytesOut),
			cs.MeanRatio, cs.MedianRatio, cs.P95Ratio, formatBytes(cs.BytesSaved()))
	}

	if dryRun {
		fmt.Println("\nDry run complete - nothing written.")
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
