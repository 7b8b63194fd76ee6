package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navtree/internal/config"
	"github.com/ziadkadry99/navtree/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a documentation output directory with the navigation API",
	Long: `Serves the output directory over HTTP together with /api/navtree (the
resolved tree, index and UI strings as JSON) and /api/lookup?url= (the
tree position and breadcrumb of a page).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("allow-all", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dir := cfg.OutputDir
	if len(args) == 1 {
		if dir, err = siteDir(args[0]); err != nil {
			return err
		}
	}

	s, err := site.Load(cmd.Context(), dir)
	if err != nil {
		return err
	}

	srvCfg := site.ServerConfig{Port: cfg.Serve.Port, AllowAll: cfg.Serve.AllowAll}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		srvCfg.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all"); allowAll {
		srvCfg.AllowAll = true
	}
	srvCfg.Open, _ = cmd.Flags().GetBool("open")

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "navtree %s serving %s on port %d, press Ctrl+C to stop\n", Version, dir, srvCfg.Port)
	return site.NewServer(srvCfg, s, newLogger()).Start(ctx)
}
