package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/config"
	"github.com/ziadkadry99/navtree/internal/navtree"
	"github.com/ziadkadry99/navtree/internal/outline"
	"github.com/ziadkadry99/navtree/internal/progress"
	"github.com/ziadkadry99/navtree/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the navigation index for a documentation output directory",
	Long: `Builds navtreedata.js, its external subtree files and the navtreeindexN.js
lookup shards from a YAML outline or from the pages of a docs directory.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("outline", "", "build from this YAML outline (overrides config)")
	buildCmd.Flags().String("docs", "", "build from the pages in this directory (overrides config)")
	buildCmd.Flags().String("output", "", "output directory (overrides config)")
	buildCmd.Flags().Int("page-size", 0, "urls per index shard (overrides config)")
	buildCmd.Flags().Int("split-depth", -1, "inline levels kept in navtreedata.js, 0 keeps everything inline (overrides config)")
	buildCmd.Flags().Int("concurrency", 0, "max parallel file writes (overrides config)")
	buildCmd.Flags().String("save-outline", "", "also write the tree as a YAML outline to this path")
	buildCmd.MarkFlagsMutuallyExclusive("outline", "docs")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, cfg)

	o, err := loadOutline(cfg)
	if err != nil {
		return err
	}
	tree := o.Tree(outlineOptions(cfg))
	log.V(1).Info("loaded tree", "source", cfg.Source, "nodes", navtree.Count(tree))

	// Outline refs point at subtree files already present in the output dir.
	if refs := navtree.Refs(tree); len(refs) > 0 {
		log.V(1).Info("resolving external subtrees", "count", len(refs), "dir", cfg.OutputDir)
		tree, err = navtree.Resolve(ctx, tree, navtree.DirLoader{Dir: cfg.OutputDir})
		if err != nil {
			return fmt.Errorf("resolving outline refs: %w", err)
		}
	}

	if path, _ := cmd.Flags().GetString("save-outline"); path != "" {
		saved := &outline.Outline{Messages: o.Messages, Entries: outline.FromTree(tree)}
		if err := saved.Save(path); err != nil {
			return err
		}
		log.Info("outline saved", "path", path)
	}

	out, err := site.Build(tree, site.BuildOptions{
		PageSize:   cfg.PageSize,
		SplitDepth: cfg.SplitDepth,
		Messages:   mergeMessages(cfg.MessageSet(), o.Messages),
	})
	if err != nil {
		return err
	}

	w := site.NewWriter(cfg.OutputDir, log)
	w.Concurrency = cfg.MaxConcurrency
	w.Reporter = progress.NewReporter()
	files, err := w.Write(ctx, out)
	if err != nil {
		return fmt.Errorf("writing navigation index: %w", err)
	}

	fmt.Printf("Navigation index written: %s (%d pages, %d files, %s)\n",
		cfg.OutputDir, navtree.Count(tree), files, time.Since(start).Round(time.Millisecond))
	return nil
}

func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("outline"); v != "" {
		cfg.Source = config.SourceOutline
		cfg.Outline = v
	}
	if v, _ := cmd.Flags().GetString("docs"); v != "" {
		cfg.Source = config.SourceDocs
		cfg.DocsDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("page-size"); v > 0 {
		cfg.PageSize = v
	}
	if v, _ := cmd.Flags().GetInt("split-depth"); v >= 0 {
		cfg.SplitDepth = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.MaxConcurrency = v
	}
}

// loadOutline reads the configured tree source.
func loadOutline(cfg *config.Config) (*outline.Outline, error) {
	switch cfg.Source {
	case config.SourceDocs:
		o, err := outline.Discover(cfg.DocsDir, outline.DiscoverOptions{
			Include: cfg.Include,
			Exclude: cfg.Exclude,
			Title:   cfg.ProjectName,
		})
		if err != nil {
			return nil, err
		}
		if cfg.ProjectURL != "" && o.Title != "" {
			o.URL = cfg.ProjectURL
		}
		return o, nil
	default:
		return outline.Load(cfg.Outline)
	}
}

// outlineOptions maps the config onto tree conversion options. Discovered
// pages keep their real paths, so only outline urls are hashed.
func outlineOptions(cfg *config.Config) outline.Options {
	return outline.Options{HashSubdirs: cfg.CreateSubdirs && cfg.Source != config.SourceDocs}
}

// mergeMessages overlays outline messages on the configured ones.
func mergeMessages(base navtree.Messages, extra map[string]string) navtree.Messages {
	out := make(navtree.Messages, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.ToUpper(k)] = v
	}
	return out
}
