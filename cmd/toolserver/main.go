// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the toolserver CLI. Each invocation
// runs one of the tool services (papers, documents, data, web) over MCP,
// MCP stdio, or REST.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the toolserver CLI.
var rootCmd = &cobra.Command{
	Use:   "toolserver",
	Short: "Serve paper, document, data, and web tools over MCP and REST",
	Long: `toolserver exposes four independent tool services. Each service registers
its operations once and serves them as MCP tools (streamable HTTP or stdio)
or as REST endpoints.

  papers     arXiv search, cached paper lookup, citations
  documents  PDF text, tables, metadata, and text utilities
  data       validation, CSV/JSON conversion, cleaning, statistics
  web        fetching, link and metadata extraction, URL checks`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./toolserver.yaml or ~/.config/toolserver/toolserver.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("toolserver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "toolserver"))
		}
	}

	viper.SetEnvPrefix("TOOLSERVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("port", "TOOLSERVER_PORT", "PORT")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
