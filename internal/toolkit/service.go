// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolkit

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"
)

// Capability is a startup probe for something a group of tools depends on,
// such as a writable cache or a working PDF parser.
type Capability struct {
	Name  string
	Check func(ctx context.Context) error
}

// Service is a named set of tools with shared logging, metrics, and
// capability state. Register tools with Add, then call Probe once before
// exposing the service.
type Service struct {
	name    string
	version string
	tools   []Tool
	caps    []Capability

	// unavailable maps a tool name to the reason its capability failed.
	unavailable map[string]string

	logger  *slog.Logger
	metrics *Metrics
}

// NewService creates an empty service. A nil logger discards output.
func NewService(name, version string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		name:        name,
		version:     version,
		unavailable: make(map[string]string),
		logger:      logger.With("service", name),
		metrics:     NewMetrics(name),
	}
}

// Name returns the service name.
func (s *Service) Name() string { return s.name }

// Version returns the service version.
func (s *Service) Version() string { return s.version }

// Metrics returns the service's metrics registry.
func (s *Service) Metrics() *Metrics { return s.metrics }

// Add registers tools in the order they should be listed.
func (s *Service) Add(tools ...Tool) {
	s.tools = append(s.tools, tools...)
}

// Require registers a capability probe.
func (s *Service) Require(c Capability) {
	s.caps = append(s.caps, c)
}

// Tools returns every registered tool, available or not.
func (s *Service) Tools() []Tool {
	return append([]Tool(nil), s.tools...)
}

// Probe runs every capability check and marks dependent tools unavailable
// when a check fails. It returns the names of failed capabilities.
func (s *Service) Probe(ctx context.Context) []string {
	failed := make(map[string]string)
	for _, c := range s.caps {
		if err := c.Check(ctx); err != nil {
			s.logger.Warn("capability unavailable", "capability", c.Name, "error", err)
			failed[c.Name] = err.Error()
		}
	}

	for _, t := range s.tools {
		for _, req := range t.Requires {
			if reason, ok := failed[req]; ok {
				s.unavailable[t.Name] = req + ": " + reason
				break
			}
		}
	}

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unavailable returns the reason a tool is disabled, or "" if it is usable.
func (s *Service) Unavailable(tool string) string {
	return s.unavailable[tool]
}

// invoke runs one tool call, classifying unclassified errors as internal and
// recording a log line and metrics sample.
func (s *Service) invoke(ctx context.Context, tool string, call func(context.Context) error) error {
	start := time.Now()
	err := call(ctx)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		var te *Error
		if !errors.As(err, &te) {
			err = &Error{Kind: KindInternal, Err: err}
		}
		outcome = string(KindOf(err))
	}
	s.metrics.observe(tool, outcome, elapsed)

	if err != nil {
		s.logger.Warn("tool call failed", "tool", tool, "kind", outcome, "duration", elapsed, "error", err)
		return err
	}
	s.logger.Debug("tool call", "tool", tool, "duration", elapsed)
	return nil
}
