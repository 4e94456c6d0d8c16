// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toolservers/pkg/types"
)

const (
	defaultPapersTimeout    = 30 * time.Second
	defaultDownloadTimeout  = 30 * time.Second
	defaultMaxDownloadBytes = 50 << 20
)

func init() {
	viper.SetDefault("transport", string(types.TransportMCP))
	viper.SetDefault("papers.dir", "papers")
	viper.SetDefault("papers.store", string(types.StoreJSON))
	viper.SetDefault("papers.timeout", defaultPapersTimeout)
	viper.SetDefault("papers.max_retries", 3)
	viper.SetDefault("documents.download_timeout", defaultDownloadTimeout)
	viper.SetDefault("documents.max_download_bytes", defaultMaxDownloadBytes)
	viper.SetDefault("web.workers", 8)

	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the merged flag, environment, and file settings.
func loadConfig() types.Config {
	ua := viper.GetString("user_agent")
	webUA := ua
	if webUA == "" {
		webUA = types.BrowserUserAgent
	}
	return types.Config{
		Server: types.ServerConfig{
			Port:      viper.GetInt("port"),
			Transport: types.Transport(viper.GetString("transport")),
			LogLevel:  viper.GetString("log_level"),
			LogFormat: viper.GetString("log_format"),
		},
		Papers: types.PapersConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("papers.timeout"),
				UserAgent: ua,
			},
			Dir:        viper.GetString("papers.dir"),
			Store:      types.StoreBackend(viper.GetString("papers.store")),
			APIBase:    viper.GetString("papers.api_base"),
			MaxRetries: viper.GetInt("papers.max_retries"),
		},
		Documents: types.DocumentsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("documents.download_timeout"),
				UserAgent: ua,
			},
			MaxDownloadBytes: viper.GetInt64("documents.max_download_bytes"),
		},
		Web: types.WebConfig{
			UserAgent: webUA,
			Workers:   viper.GetInt("web.workers"),
		},
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(loadConfig())
	},
}
