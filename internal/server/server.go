// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server assembles the four tool services from configuration and
// runs one of them over the selected transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/toolservers/internal/data"
	"github.com/pdiddy/toolservers/internal/documents"
	"github.com/pdiddy/toolservers/internal/papers"
	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/internal/web"
	"github.com/pdiddy/toolservers/pkg/types"
)

// Service names.
const (
	Papers    = "papers"
	Documents = "documents"
	Data      = "data"
	Web       = "web"
)

// Names lists the services in default-port order.
var Names = []string{Papers, Documents, Data, Web}

var defaultPorts = map[string]int{
	Papers:    8001,
	Documents: 8002,
	Data:      8003,
	Web:       8004,
}

const (
	defaultPapersDir = "papers"
	shutdownTimeout  = 5 * time.Second
)

// DefaultPort returns the listening port used when none is configured.
func DefaultPort(name string) int {
	return defaultPorts[name]
}

// Build assembles the named service and runs its capability probes. Tools
// whose capability failed stay registered but are reported unavailable.
// The returned function releases resources held by the service.
func Build(ctx context.Context, name, version string, cfg types.Config, logger *slog.Logger) (*toolkit.Service, func() error, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ts := toolkit.NewService(name, version, logger)
	closeFn := func() error { return nil }

	switch name {
	case Papers:
		store, err := OpenStore(cfg.Papers)
		if err != nil {
			return nil, nil, err
		}
		papers.NewService(papers.NewArxivClient(cfg.Papers), store).Register(ts)
		closeFn = store.Close
	case Documents:
		documents.NewService(cfg.Documents).Register(ts)
	case Data:
		data.Register(ts)
	case Web:
		web.NewService(cfg.Web).Register(ts)
	default:
		return nil, nil, fmt.Errorf("unknown service %q: use one of %s", name, strings.Join(Names, ", "))
	}

	if failed := ts.Probe(ctx); len(failed) > 0 {
		logger.Warn("some tools are unavailable", "service", name, "capabilities", failed)
	}
	return ts, closeFn, nil
}

// OpenStore opens the paper cache backend selected by cfg.Store.
func OpenStore(cfg types.PapersConfig) (papers.Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultPapersDir
	}
	switch cfg.Store {
	case "", types.StoreJSON:
		return papers.NewFileStore(dir), nil
	case types.StoreSQLite:
		return papers.NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unsupported store %q: use json or sqlite", cfg.Store)
	}
}

// Handler returns the HTTP handler for an HTTP transport: the MCP streamable
// endpoint (the default) or the REST surface.
func Handler(ts *toolkit.Service, transport types.Transport) (http.Handler, error) {
	switch transport {
	case "", types.TransportMCP:
		return ts.MCPHandler(), nil
	case types.TransportREST:
		return ts.RESTHandler(), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q: use mcp, stdio, or rest", transport)
	}
}

// Serve exposes ts over cfg.Transport until ctx is cancelled. The HTTP
// transports shut down gracefully; stdio returns when the client
// disconnects.
func Serve(ctx context.Context, ts *toolkit.Service, cfg types.ServerConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Transport == types.TransportStdio {
		logger.Info("serving over stdio", "service", ts.Name())
		return ts.MCPServer().Run(ctx, &mcp.StdioTransport{})
	}
	h, err := Handler(ts, cfg.Transport)
	if err != nil {
		return err
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort(ts.Name())
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "service", ts.Name(), "transport", cfg.Transport, "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down", "service", ts.Name())
		return srv.Shutdown(shutdownCtx)
	}
}
