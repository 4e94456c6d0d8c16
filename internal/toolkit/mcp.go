// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPPath is where the streamable HTTP endpoint is mounted.
const MCPPath = "/mcp"

// MCPServer builds a go-sdk server with every available tool registered.
// Tools disabled by a failed capability probe are left out of the listing.
func (s *Service) MCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)
	for _, t := range s.tools {
		if s.Unavailable(t.Name) != "" {
			continue
		}
		t.addMCP(srv, s.invoke)
	}
	return srv
}

// MCPHandler serves the MCP streamable HTTP transport at MCPPath alongside
// the health and metrics endpoints.
func (s *Service) MCPHandler() http.Handler {
	srv := s.MCPServer()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Handle(MCPPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil))
	return r
}
