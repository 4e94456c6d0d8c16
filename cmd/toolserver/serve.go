// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toolservers/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <service>",
	Short: "Run a tool service",
	Long: `Serve runs one tool service until interrupted.

Transports:
  mcp    MCP streamable HTTP at /mcp, plus /health and /metrics (default)
  stdio  MCP over stdin/stdout; logs go to stderr
  rest   GET /, GET /health, GET /metrics, and POST /<tool>

The port defaults to 8001-8004 for papers, documents, data, and web; PORT
or TOOLSERVER_PORT overrides it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: server.Names,
	RunE:      runServe,
}

func init() {
	serveCmd.Flags().String("transport", "mcp", "transport: "+strings.Join([]string{"mcp", "stdio", "rest"}, ", "))
	serveCmd.Flags().Int("port", 0, "listening port (default depends on the service)")
	serveCmd.Flags().String("papers-dir", "papers", "base directory for the paper cache")
	serveCmd.Flags().String("store", "json", "paper cache backend: json or sqlite")

	viper.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("papers.dir", serveCmd.Flags().Lookup("papers-dir"))
	viper.BindPFlag("papers.store", serveCmd.Flags().Lookup("store"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, err := server.NewLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ts, closeFn, err := server.Build(ctx, args[0], version, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := server.Serve(ctx, ts, cfg.Server, logger); err != nil {
		return fmt.Errorf("serving %s: %w", args[0], err)
	}
	return nil
}
