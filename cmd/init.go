package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize navtree configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure navtree for your documentation and generates a .navtree.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
