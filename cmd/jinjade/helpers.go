package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jinjade/internal/diagfmt"
	"jinjade/internal/driver"
)

// driverOptions reads the shared persistent flags into driver options.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return driver.Options{MaxDiagnostics: maxDiagnostics}, nil
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func pathMode(cmd *cobra.Command) diagfmt.PathMode {
	flag, _ := cmd.Root().PersistentFlags().GetString("paths")
	switch flag {
	case "relative":
		return diagfmt.PathModeRelative
	case "basename":
		return diagfmt.PathModeBasename
	}
	return diagfmt.PathModeAuto
}

// reportDiagnostics prints the result's diagnostics to stderr and returns an
// error when the transpile failed, so commands exit non-zero.
func reportDiagnostics(cmd *cobra.Command, res *driver.Result) error {
	if res.Bag.Len() > 0 {
		res.Bag.Sort()
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			PathMode:  pathMode(cmd),
			Context:   2,
			ShowNotes: true,
		})
	}
	if !res.Ok() {
		return fmt.Errorf("%s: transpile failed", res.File.Path)
	}
	return nil
}

// loadResult runs the pipeline for a path argument, with "-" meaning stdin.
func loadResult(cmd *cobra.Command, arg string) (*driver.Result, error) {
	opts, err := driverOptions(cmd)
	if err != nil {
		return nil, err
	}
	if arg == "-" {
		return driver.TranspileReader("<stdin>", cmd.InOrStdin(), opts)
	}
	return driver.Transpile(arg, opts)
}
