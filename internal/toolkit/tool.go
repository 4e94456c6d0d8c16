// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolkit registers a service's operations once and exposes them over
// two transports: MCP (tools registered on a go-sdk server) and REST (one POST
// endpoint per tool). Both transports share the same typed handlers, the same
// error kinds, and the same logging and metrics.
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler implements one operation over typed input and output. Input field
// names (json tags) are the tool's parameter names on both transports.
type Handler[In, Out any] func(ctx context.Context, in In) (Out, error)

// invoker wraps a single call with the service's logging and metrics.
type invoker func(ctx context.Context, tool string, call func(context.Context) error) error

// Tool is a named operation bound to its handler. Build one with Define.
type Tool struct {
	Name        string
	Description string

	// Requires names the capabilities this tool depends on. A tool whose
	// capability probe failed at startup is reported as unavailable.
	Requires []string

	schema func() (*jsonschema.Schema, error)
	addMCP func(s *mcp.Server, run invoker)
	call   func(ctx context.Context, body []byte, run invoker) (any, error)
}

// Define binds a typed handler to a tool name and description.
func Define[In, Out any](name, description string, h Handler[In, Out], requires ...string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Requires:    requires,
		schema: func() (*jsonschema.Schema, error) {
			return jsonschema.For[In](nil)
		},
		addMCP: func(s *mcp.Server, run invoker) {
			mcp.AddTool(s, &mcp.Tool{Name: name, Description: description},
				func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
					var out Out
					err := run(ctx, name, func(ctx context.Context) error {
						var err error
						out, err = h(ctx, in)
						return err
					})
					return nil, out, err
				})
		},
		call: func(ctx context.Context, body []byte, run invoker) (any, error) {
			var in In
			if len(bytes.TrimSpace(body)) > 0 {
				if err := json.Unmarshal(body, &in); err != nil {
					return nil, InvalidInput("decoding request body: %v", err)
				}
			}
			var out Out
			err := run(ctx, name, func(ctx context.Context) error {
				var err error
				out, err = h(ctx, in)
				return err
			})
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// InputSchema returns the JSON schema inferred from the tool's input type.
func (t Tool) InputSchema() (*jsonschema.Schema, error) {
	return t.schema()
}
