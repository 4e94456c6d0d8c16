// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoIn struct {
	Text  string `json:"text" jsonschema:"text to echo"`
	Times int    `json:"times,omitempty" jsonschema:"repeat count"`
}

type echoOut struct {
	Result string `json:"result"`
}

func echo(_ context.Context, in echoIn) (echoOut, error) {
	if in.Text == "" {
		return echoOut{}, InvalidInput("text is required")
	}
	n := max(in.Times, 1)
	return echoOut{Result: strings.Repeat(in.Text, n)}, nil
}

func testService(t *testing.T) *Service {
	t.Helper()
	s := NewService("demo", "1.2.3", nil)
	s.Add(
		Define("echo", "Echo text.", echo),
		Define("lookup", "Always missing.", func(context.Context, echoIn) (echoOut, error) {
			return echoOut{}, NotFound("no record for %q", "x")
		}),
		Define("crash", "Unclassified failure.", func(context.Context, echoIn) (echoOut, error) {
			return echoOut{}, errors.New("disk on fire")
		}),
		Define("needs_parser", "Depends on a parser.", echo, "parser"),
	)
	s.Require(Capability{Name: "parser", Check: func(context.Context) error {
		return errors.New("parser missing")
	}})
	require.Equal(t, []string{"parser"}, s.Probe(context.Background()))
	return s
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRESTToolCall(t *testing.T) {
	h := testService(t).RESTHandler()

	rec := post(t, h, "/echo", `{"text":"ab","times":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"result":"abab"}`, rec.Body.String())
}

func TestRESTErrorMapping(t *testing.T) {
	h := testService(t).RESTHandler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		kind   Kind
	}{
		{"invalid input", "/echo", `{}`, http.StatusBadRequest, KindInvalidInput},
		{"empty body", "/echo", ``, http.StatusBadRequest, KindInvalidInput},
		{"malformed json", "/echo", `{"text":`, http.StatusBadRequest, KindInvalidInput},
		{"not found", "/lookup", `{}`, http.StatusNotFound, KindNotFound},
		{"internal", "/crash", `{}`, http.StatusInternalServerError, KindInternal},
		{"unavailable", "/needs_parser", `{"text":"a"}`, http.StatusServiceUnavailable, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

type ratioOut struct {
	Value float64 `json:"value"`
}

func TestRESTUnencodableOutput(t *testing.T) {
	s := NewService("demo", "test", nil)
	s.Add(Define("ratio", "Returns a non-finite number.", func(context.Context, echoIn) (ratioOut, error) {
		return ratioOut{Value: math.Inf(1)}, nil
	}))

	rec := post(t, s.RESTHandler(), "/ratio", `{"text":"a"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindInternal, body.Kind)
	assert.Contains(t, body.Error, "encoding response")
}

func TestRESTIndex(t *testing.T) {
	h := testService(t).RESTHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var idx Index
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idx))
	assert.Equal(t, "demo", idx.Service)
	assert.Equal(t, "1.2.3", idx.Version)

	var names []string
	for _, tool := range idx.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"echo", "lookup", "crash"}, names)
	assert.Equal(t, "parser: parser missing", idx.Unavailable["needs_parser"])

	require.NotNil(t, idx.Tools[0].InputSchema)
	assert.Contains(t, idx.Tools[0].InputSchema.Properties, "text")
	assert.Equal(t, []string{"text"}, idx.Tools[0].InputSchema.Required)
}

func TestRESTHealth(t *testing.T) {
	h := testService(t).RESTHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"demo"}`, rec.Body.String())
}

func TestRESTUnknownTool(t *testing.T) {
	rec := post(t, testService(t).RESTHandler(), "/nope", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsRecorded(t *testing.T) {
	s := testService(t)
	h := s.RESTHandler()
	post(t, h, "/echo", `{"text":"a"}`)
	post(t, h, "/echo", `{}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `toolserver_tool_calls_total{outcome="ok",service="demo",tool="echo"} 1`)
	assert.Contains(t, string(body), `toolserver_tool_calls_total{outcome="invalid_input",service="demo",tool="echo"} 1`)
	assert.Contains(t, string(body), `toolserver_tool_call_duration_seconds_count{service="demo",tool="echo"} 2`)
}

func mcpSession(t *testing.T, s *Service) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := s.MCPServer().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestMCPListsAvailableTools(t *testing.T) {
	cs := mcpSession(t, testService(t))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"echo", "lookup", "crash"}, names)
}

func TestMCPToolCall(t *testing.T) {
	cs := mcpSession(t, testService(t))
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "hi", "times": 3},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, map[string]any{"result": "hihihi"}, res.StructuredContent)
}

func TestMCPToolError(t *testing.T) {
	cs := mcpSession(t, testService(t))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lookup",
		Arguments: map[string]any{"text": "x"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, `not_found: no record for "x"`, text.Text)
}

func TestMCPHandlerHealth(t *testing.T) {
	h := testService(t).MCPHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHelpers(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(KindUpstream, "fetching page", base)
	assert.Equal(t, "upstream: fetching page: boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, KindUpstream, KindOf(err))

	assert.NoError(t, Wrap(KindInternal, "x", nil))
	assert.Equal(t, KindInternal, KindOf(base))
	assert.Equal(t, http.StatusBadGateway, KindUpstream.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, KindUnavailable.HTTPStatus())
}
