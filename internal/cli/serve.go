package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/platewatch/platewatch/internal/api"
	"github.com/platewatch/platewatch/internal/app"
)

var serveAddr string

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the search, recall, barcode and classification
operations over HTTP under /api/v1.

Example:
  platewatch serve
  platewatch serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	srv := &api.Server{
		Engine:     a.Engine,
		Recalls:    a.Recalls,
		Resolver:   a.Resolver,
		Summarizer: a.Summarizer,
		Advisor:    a.Advisor,
		SearchOpts: a.SearchOptions(),
		Log:        a.Log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Server.Addr)
}
