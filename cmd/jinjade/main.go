package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jinjade/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jinjade",
	Short: "Jade to Jinja2 template transpiler",
	Long:  `jinjade rewrites indentation-based Jade templates as Jinja2, keeping a strict line-to-line mapping between input and output`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("paths", "auto", "diagnostic path display (auto|relative|basename)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 64, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
