package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the preflight HTTP API",
	Long: `Serve exposes preflight over HTTP:

  POST /v1/preflight, /v1/score, /v1/print-ready, /v1/feedback
  GET  /v1/specs, /v1/specs/{productType}, /v1/grades/{score}
  GET  /healthz, /metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd.Context()); err != nil {
			fail(err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	strategy, err := scoring.StrategyByName(rt.cfg.Strategy)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := newLogger(os.Stderr, logLevel(rt.cfg.Quiet, rt.cfg.Verbose, slog.LevelInfo))
	h := server.NewHandler(rt.registry, strategy, server.NewMetrics(), log)
	srv := server.NewServer(rt.cfg.Server.Addr, h)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
