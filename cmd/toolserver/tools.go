// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toolservers/internal/server"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <service>",
	Short: "List a service's tools and their availability",
	Long: `Tools builds the service, runs its capability checks, and lists every
tool. Tools disabled by a failed check are marked with the reason. With
--json the output is the same document REST serves at GET /.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: server.Names,
	RunE:      runTools,
}

func init() {
	toolsCmd.Flags().Bool("json", false, "output the service index as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, err := server.NewLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return err
	}

	ts, closeFn, err := server.Build(context.Background(), args[0], version, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ts.Index())
	}

	fmt.Fprintf(os.Stdout, "%-24s  %s\n", "Tool", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, t := range ts.Tools() {
		desc := t.Description
		if reason := ts.Unavailable(t.Name); reason != "" {
			desc = "[unavailable: " + reason + "] " + desc
		}
		fmt.Fprintf(os.Stdout, "%-24s  %s\n", t.Name, desc)
	}
	fmt.Fprintf(os.Stdout, "\n%d tools\n", len(ts.Tools()))
	return nil
}
