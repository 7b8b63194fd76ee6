package config

import (
	"slices"

	"github.com/ziadkadry99/navtree/internal/navindex"
	"github.com/ziadkadry99/navtree/internal/navtree"
)

// DefaultIncludes are the page patterns picked up from a docs directory.
var DefaultIncludes = []string{"**/*.md", "**/*.html"}

// DefaultExcludes are glob patterns excluded from discovery by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"search/**",
	"**/drafts/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ProjectName:    "Documentation",
		ProjectURL:     "index.html",
		Source:         SourceOutline,
		Outline:        "navtree.yml",
		DocsDir:        "docs",
		OutputDir:      "html",
		Include:        slices.Clone(DefaultIncludes),
		Exclude:        slices.Clone(DefaultExcludes),
		PageSize:       navindex.DefaultPageSize,
		SplitDepth:     2,
		CreateSubdirs:  false,
		MaxConcurrency: 8,
		Messages:       navtree.DefaultMessages(),
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
