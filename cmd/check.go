package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/config"
	"github.com/ziadkadry99/navtree/internal/navtree"
	"github.com/ziadkadry99/navtree/internal/site"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir | navtreedata.js]",
	Short: "Check a navigation index for structural problems and missing urls",
	Long: `Parses navtreedata.js, loads every external subtree and index shard it
refers to, validates the tree and reports tree urls the index does not
cover. Exits non-zero when problems are found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}

	s, err := site.Load(cmd.Context(), dir)
	if err != nil {
		return err
	}

	var problems []string
	if err := navtree.Validate(s.Tree); err != nil {
		problems = append(problems, flatten(err)...)
	}
	for _, url := range s.Missing() {
		problems = append(problems, fmt.Sprintf("not indexed: %s", url))
	}

	out := cmd.OutOrStdout()
	for _, p := range problems {
		fmt.Fprintf(out, "  %s\n", p)
	}
	shards := 0
	if s.Index != nil {
		shards = len(s.Index.Shards)
	}
	fmt.Fprintf(out, "%s: %d nodes, %d index entries, %d shards\n",
		dir, navtree.Count(s.Tree), len(s.Bundle.Index), shards)

	if len(problems) > 0 {
		return fmt.Errorf("%d problems found", len(problems))
	}
	return nil
}

// targetDir returns the output directory named by args, or the configured
// one when args is empty.
func targetDir(args []string) (string, error) {
	if len(args) == 1 {
		return siteDir(args[0])
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return "", err
	}
	return cfg.OutputDir, nil
}

// flatten splits an errors.Join result into its messages.
func flatten(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
