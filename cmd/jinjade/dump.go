package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jinjade/internal/diag"
	"jinjade/internal/diagfmt"
	"jinjade/internal/indent"
	"jinjade/internal/line"
	"jinjade/internal/source"
)

var linesCmd = &cobra.Command{
	Use:   "lines [flags] file.jade",
	Short: "Dump scanned source lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

var eventsCmd = &cobra.Command{
	Use:   "events [flags] file.jade",
	Short: "Dump the indentation event stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvents,
}

var treeCmd = &cobra.Command{
	Use:   "tree [flags] file.jade",
	Short: "Dump the parsed node tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	linesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	eventsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// scanArg loads the file and scans its lines, reporting into a fresh bag.
func scanArg(cmd *cobra.Command, path string) (*source.FileSet, *source.File, []line.Line, *diag.Bag, error) {
	opts, err := driverOptions(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	f := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	lines, _ := line.Scan(f, diag.BagReporter{Bag: bag})
	return fs, f, lines, bag, nil
}

func dumpDiagnostics(cmd *cobra.Command, fs *source.FileSet, bag *diag.Bag) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   2,
		ShowNotes: true,
	})
}

func runLines(cmd *cobra.Command, args []string) error {
	fs, _, lines, bag, err := scanArg(cmd, args[0])
	if err != nil {
		return err
	}
	dumpDiagnostics(cmd, fs, bag)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "pretty":
		return diagfmt.FormatLinesPretty(cmd.OutOrStdout(), lines)
	case "json":
		return diagfmt.FormatLinesJSON(cmd.OutOrStdout(), lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runEvents(cmd *cobra.Command, args []string) error {
	fs, _, lines, bag, err := scanArg(cmd, args[0])
	if err != nil {
		return err
	}
	if bag.HasErrors() {
		dumpDiagnostics(cmd, fs, bag)
		return fmt.Errorf("%s: scan failed", args[0])
	}

	p := indent.New(lines, diag.BagReporter{Bag: bag})
	format, _ := cmd.Flags().GetString("format")
	var dumpErr error
	switch format {
	case "pretty":
		dumpErr = diagfmt.FormatEventsPretty(cmd.OutOrStdout(), p)
	case "json":
		dumpErr = diagfmt.FormatEventsJSON(cmd.OutOrStdout(), p)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	dumpDiagnostics(cmd, fs, bag)
	if dumpErr != nil {
		return dumpErr
	}
	if p.Failed() {
		return fmt.Errorf("%s: block parse failed", args[0])
	}
	return nil
}

func runTree(cmd *cobra.Command, args []string) error {
	res, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	if err := reportDiagnostics(cmd, res); err != nil {
		return err
	}
	return diagfmt.FormatTree(cmd.OutOrStdout(), res.Builder, res.Root)
}
