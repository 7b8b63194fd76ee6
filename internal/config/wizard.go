package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where the wizard writes its configuration.
const DefaultPath = ".navtree.yml"

// docsLayouts maps marker files to the kind of documentation tree found in
// the current directory and the output directory it is usually built into.
var docsLayouts = map[string]struct {
	Name   string
	Output string
}{
	"Doxyfile":      {Name: "Doxygen", Output: "html"},
	"mkdocs.yml":    {Name: "MkDocs", Output: "site"},
	"conf.py":       {Name: "Sphinx", Output: "_build/html"},
	"book.toml":     {Name: "mdBook", Output: "book"},
	"docs/index.md": {Name: "Markdown docs", Output: "html"},
}

// detectLayout checks the current directory for well-known documentation markers.
func detectLayout() (name string, output string) {
	for marker, info := range docsLayouts {
		if _, err := os.Stat(filepath.FromSlash(marker)); err == nil {
			return info.Name, info.Output
		}
	}
	return "", "html"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .navtree.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to navtree! Let's configure your documentation index.")
	fmt.Println()

	layout, defaultOutput := detectLayout()
	if layout != "" {
		fmt.Printf("Detected documentation layout: %s\n\n", layout)
	}

	cfg := DefaultConfig()

	// 1. Project name, shown as the root of the tree.
	wd, _ := os.Getwd()
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: filepath.Base(wd),
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.ProjectName = name

	// 2. Source of the tree.
	sourcePrompt := promptui.Select{
		Label: "Build the navigation tree from",
		Items: []string{
			"outline — a YAML outline you maintain by hand",
			"docs    — the pages found in a docs directory",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	sources := []SourceType{SourceOutline, SourceDocs}
	cfg.Source = sources[sourceIdx]

	if cfg.Source == SourceOutline {
		outlinePrompt := promptui.Prompt{
			Label:   "Outline file",
			Default: cfg.Outline,
		}
		if cfg.Outline, err = outlinePrompt.Run(); err != nil {
			return nil, fmt.Errorf("outline file: %w", err)
		}
	} else {
		docsPrompt := promptui.Prompt{
			Label:   "Docs directory",
			Default: cfg.DocsDir,
		}
		if cfg.DocsDir, err = docsPrompt.Run(); err != nil {
			return nil, fmt.Errorf("docs directory: %w", err)
		}

		includePrompt := promptui.Prompt{
			Label:   "Include patterns (comma-separated globs)",
			Default: strings.Join(DefaultIncludes, ","),
		}
		includeStr, err := includePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("include patterns: %w", err)
		}
		cfg.Include = splitAndTrim(includeStr)
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the navigation files",
		Default: defaultOutput,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Hashed subdirectories.
	subdirPrompt := promptui.Select{
		Label: "Spread pages over hashed subdirectories (d3/df9/page.html)?",
		Items: []string{"no", "yes"},
	}
	subdirIdx, _, err := subdirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("subdirectory selection: %w", err)
	}
	cfg.CreateSubdirs = subdirIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
