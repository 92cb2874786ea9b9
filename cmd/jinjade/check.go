package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinjade/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] file.jade|-",
	Short: "Transpile and validate without writing output",
	Long: `Check runs the full transpile and then parses the result with a
template engine. Nothing is written; the exit status reports success.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	if err := reportDiagnostics(cmd, res); err != nil {
		return err
	}
	if err := driver.Check(res.Output); err != nil {
		return fmt.Errorf("%s: %w", res.File.Path, err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", res.File.Path)
	}
	return nil
}
