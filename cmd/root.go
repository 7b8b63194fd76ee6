package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "navtree",
	Short: "Build and inspect documentation navigation indexes",
	Long: `navtree writes the navtreedata.js navigation index read by
documentation viewers: the page tree, its lazily loaded subtree files and
the sharded url lookup table. It can build the index from a YAML outline
or a directory of pages, check and reformat existing indexes, and serve
an output directory for preview.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".navtree.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
