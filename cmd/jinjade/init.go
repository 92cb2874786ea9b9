package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new jinjade project",
	Long: `Initialize a new jinjade project by creating a project manifest
(jinjade.toml) and a starter template (templates/index.jade). If [path|name]
is omitted, initializes the current directory. If a non-existing name is
provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "jinjade-project"
	}

	manifestPath := filepath.Join(target, "jinjade.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	templatePath := filepath.Join(target, "templates", "index.jade")
	createdTemplate := false
	if _, err := os.Stat(templatePath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(templatePath), 0o755); err != nil {
			return fmt.Errorf("failed to create templates directory: %w", err)
		}
		if err := os.WriteFile(templatePath, []byte(defaultTemplate()), 0o600); err != nil {
			return fmt.Errorf("failed to write index.jade: %w", err)
		}
		createdTemplate = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized jinjade project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - jinjade.toml\n")
	if createdTemplate {
		fmt.Fprintf(os.Stdout, "  - templates/index.jade\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - templates/index.jade (existing)\n")
	}
	return nil
}

func buildDefaultManifest(name string) string {
	// Minimal TOML manifest used as a project marker.
	return fmt.Sprintf(`# jinjade project manifest
[package]
name = "%s"
version = "0.1.0"

[build]
src = "templates"
out = ".html"
`, name)
}

func defaultTemplate() string {
	return `doctype html
html
  head
    title= title
  body
    h1 Hello
    ul
      each item in items
        li= item
`
}
