// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/jsonschema-go/jsonschema"
)

// maxRequestBytes caps a REST request body.
const maxRequestBytes = 10 << 20

// ToolInfo describes one tool in the REST index.
type ToolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema,omitempty"`
}

// Index is the body of GET /.
type Index struct {
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Tools       []ToolInfo        `json:"tools"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// ErrorBody is the JSON body of a failed REST call.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

// RESTHandler serves GET /, GET /health, GET /metrics, and POST /<tool>
// for every registered tool.
func (s *Service) RESTHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	for _, t := range s.tools {
		r.Post("/"+t.Name, s.handleTool(t))
	}
	return r
}

// Index builds the service description served at GET /.
func (s *Service) Index() Index {
	idx := Index{Service: s.name, Version: s.version}
	for _, t := range s.tools {
		if reason := s.Unavailable(t.Name); reason != "" {
			if idx.Unavailable == nil {
				idx.Unavailable = make(map[string]string)
			}
			idx.Unavailable[t.Name] = reason
			continue
		}
		info := ToolInfo{Name: t.Name, Description: t.Description}
		if schema, err := t.InputSchema(); err == nil {
			info.InputSchema = schema
		}
		idx.Tools = append(idx.Tools, info)
	}
	return idx
}

func (s *Service) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Index())
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": s.name})
}

func (s *Service) handleTool(t Tool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reason := s.Unavailable(t.Name); reason != "" {
			writeError(w, &Error{Kind: KindUnavailable, Msg: reason})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			writeError(w, Wrap(KindInvalidInput, "reading request body", err))
			return
		}

		out, err := t.call(r.Context(), body, s.invoke)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var te *Error
	if !errors.As(err, &te) {
		te = &Error{Kind: KindInternal, Err: err}
	}
	writeJSON(w, te.Kind.HTTPStatus(), ErrorBody{Error: te.Message(), Kind: te.Kind})
}

// writeJSON encodes v before writing the status so an unencodable value
// becomes a 500 error body instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = enc.Encode(ErrorBody{Error: "encoding response: " + err.Error(), Kind: KindInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
