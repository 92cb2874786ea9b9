package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jinjade/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.jade|dir|-]",
	Short: "Transpile Jade templates to Jinja2",
	Long: `Build transpiles a Jade template (or every template under a directory)
to Jinja2. With "-" the template is read from stdin. Without an argument the
source directory comes from jinjade.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output file (default stdout; dir mode writes next to sources)")
	buildCmd.Flags().Bool("check", false, "validate the output with a template engine parse")
	buildCmd.Flags().Int("jobs", 0, "parallel workers in dir mode (0 = all CPUs)")
	buildCmd.Flags().Bool("no-cache", false, "bypass the output cache in dir mode")
}

func runBuild(cmd *cobra.Command, args []string) error {
	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	if target == "" {
		manifest, ok, err := loadManifest(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s", noManifestMessage)
		}
		target = manifest.SrcDir()
	}

	if target != "-" {
		if st, err := os.Stat(target); err == nil && st.IsDir() {
			return runBuildDir(cmd, target)
		}
	}
	return runBuildFile(cmd, target)
}

func runBuildFile(cmd *cobra.Command, target string) error {
	res, err := loadResult(cmd, target)
	if err != nil {
		return err
	}
	if err := reportDiagnostics(cmd, res); err != nil {
		return err
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		if err := driver.Check(res.Output); err != nil {
			return fmt.Errorf("%s: %w", res.File.Path, err)
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.Output)
		return err
	}
	return os.WriteFile(output, []byte(res.Output), 0o644)
}

func runBuildDir(cmd *cobra.Command, dir string) error {
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	dirOpts := driver.DirOptions{
		Options: opts,
		Write:   true,
	}
	// Anchor relative-path display at the build root.
	dirOpts.BaseDir = dir
	dirOpts.Jobs, _ = cmd.Flags().GetInt("jobs")

	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		cache, err := driver.OpenDiskCache("jinjade")
		if err == nil {
			dirOpts.Cache = cache
		}
	}

	results, err := driver.TranspileDir(context.Background(), dir, dirOpts)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	failed := 0
	for _, dr := range results {
		if err := reportDiagnostics(cmd, dr.Result); err != nil {
			failed++
			continue
		}
		if !quiet {
			note := ""
			if dr.Cached {
				note = " (cached)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", dr.Path, note)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed", failed, len(results))
	}
	return nil
}
