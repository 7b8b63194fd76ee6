package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/navindex"
	"github.com/ziadkadry99/navtree/internal/site"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <dir> <url>",
	Short: "Print the tree position of a page url",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := siteDir(args[0])
		if err != nil {
			return err
		}
		s, err := site.Load(cmd.Context(), dir)
		if err != nil {
			return err
		}

		index := s.Index
		if index == nil {
			index = navindex.Build(s.Tree, 0)
		}
		path, err := index.Lookup(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", path, strings.Join(site.Breadcrumb(s.Tree, path), " > "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
