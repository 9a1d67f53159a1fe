package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/server"
	"github.com/KaramelBytes/insights-cli/internal/session"
)

var (
	svAddr      string
	svDelimiter string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.Addr
		if cmd.Flags().Changed("addr") {
			addr = svAddr
		}
		popt, err := parseOptions(c, svDelimiter, "")
		if err != nil {
			return err
		}
		srv, err := server.New(session.NewWorkspace(), server.Options{
			Addr:        addr,
			MaxUploadMB: c.MaxUploadMB,
			Parse:       popt,
			Report:      analysis.Options{PreviewRows: c.PreviewRows, TopValues: c.TopValues},
			Renderer:    charts.NewRenderer(c.ChartHeight, c.DoughnutHole),
			Logger:      slog.Default(),
		})
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&svAddr, "addr", ":8080", "listen address (default from config)")
	serveCmd.Flags().StringVar(&svDelimiter, "delimiter", "", "CSV delimiter for uploads: ',' | ';' | 'tab' | 'pipe' (default from config)")
}
