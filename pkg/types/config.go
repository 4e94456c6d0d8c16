// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BrowserUserAgent is sent by the web service so pages render as they would
// for a desktop browser.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// HTTPConfig holds shared HTTP settings used by services that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreBackend selects the paper cache implementation.
type StoreBackend string

const (
	StoreJSON   StoreBackend = "json"
	StoreSQLite StoreBackend = "sqlite"
)

// PapersConfig holds settings for the paper search service.
type PapersConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the base directory for topic caches (default "papers").
	Dir string `json:"dir" yaml:"dir"`

	// Store selects the cache backend: json or sqlite.
	Store StoreBackend `json:"store" yaml:"store"`

	// APIBase overrides the arXiv query endpoint.
	APIBase string `json:"api_base,omitempty" yaml:"api_base,omitempty"`

	// MaxRetries is the number of retries on HTTP 429 from arXiv (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DocumentsConfig holds settings for the document service.
type DocumentsConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxDownloadBytes caps the size of a downloaded PDF (default 50 MiB).
	MaxDownloadBytes int64 `json:"max_download_bytes" yaml:"max_download_bytes"`
}

// WebConfig holds settings for the web service.
type WebConfig struct {
	// UserAgent is sent on every request (default BrowserUserAgent).
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Workers bounds concurrent checks in check_multiple_urls (default 8).
	Workers int `json:"workers" yaml:"workers"`
}

// Transport selects how a service is exposed.
type Transport string

const (
	TransportMCP   Transport = "mcp"
	TransportStdio Transport = "stdio"
	TransportREST  Transport = "rest"
)

// ServerConfig holds process-level settings.
type ServerConfig struct {
	// Port is the listening port. Each service has its own default.
	Port int `json:"port" yaml:"port"`

	// Transport selects mcp (streamable HTTP), stdio, or rest.
	Transport Transport `json:"transport" yaml:"transport"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// Config groups all service configurations.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Papers    PapersConfig    `json:"papers" yaml:"papers"`
	Documents DocumentsConfig `json:"documents" yaml:"documents"`
	Web       WebConfig       `json:"web" yaml:"web"`
}
