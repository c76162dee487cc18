package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"showglobals/internal/analysis"
	"showglobals/internal/elfx"
	"showglobals/internal/report"
	"showglobals/internal/showglobals/log"
)

var rootCmd = &cobra.Command{
	Use:   "showglobals [file]",
	Short: "Report duplicate and oversized global variables in a binary",
	Long: `Showglobals scans a binary's debug information and prints information about
'interesting' global variables: ones duplicated across translation units and
ones that are individually large. This is often helpful in understanding code
bloat or finding inefficient globals.

Duplicate globals typically come from constructs like

    const double sqrt_two = sqrt(2.0);

placed in a header file: many of the translation units including it get their
own copy. The linker sometimes coalesces identical constants to one address;
those copies waste no space and are suppressed unless requested.`,
	Example: `
# Report duplicated and large globals
showglobals /path/to/binary

# Include linker-folded constants in the waste figures
showglobals --show_folded_constants /path/to/binary

# Machine-readable output for regression testing
showglobals -j /path/to/binary
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		file := args[0]

		absPath, err := pathpkg.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", file)
			}
			return fmt.Errorf("failed to stat file: %v", err)
		}

		opts := analysis.DefaultOptions()
		opts.ShowFoldedConstants, _ = cmd.Flags().GetBool("show_folded_constants")
		opts.Demangle, _ = cmd.Flags().GetBool("demangle")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		rep, err := analyze(absPath, file, opts)
		if err != nil {
			return err
		}

		if opts.Demangle {
			names, hits, top := analysis.DemangleCacheStats()
			slog.Debug("demangle cache", "names", names, "hits", hits, "top", top)
		}

		if jsonOutput {
			bts, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		}
		return rep.WriteTSV(cmd.OutOrStdout())
	},
}

// analyze runs the whole pipeline for one binary: enumerate, filter, group,
// rank. label is the path as the user supplied it; it becomes the report's
// binary column.
func analyze(path, label string, opts analysis.Options) (*report.Report, error) {
	im, err := elfx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open debug source: %w", err)
	}
	defer im.Close()

	syms, err := analysis.CollectStatics(im, opts)
	if err != nil {
		return nil, fmt.Errorf("scan globals: %w", err)
	}

	groups := analysis.FindDuplicates(syms, opts)
	large := analysis.RankBySize(syms, opts)
	return report.New(label, groups, large), nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().Bool("show_folded_constants", false, "Count linker-coalesced constants as wasted bytes")
	rootCmd.Flags().Bool("demangle", false, "Demangle symbol names before grouping")
	rootCmd.Flags().BoolP("json", "j", false, "Output the report as JSON for regression testing")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
}

func Execute() {
	// Bypass fang's markdown rendering when output is being piped; the
	// tab-separated report has to reach the pipe untouched.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
