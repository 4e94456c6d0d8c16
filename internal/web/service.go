// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web fetches and inspects web pages: raw fetches, reachability
// checks, link and metadata extraction, CSS-selector scraping, and URL
// decomposition. Reachability operations report failures in their result;
// page parsing operations return classified errors.
package web

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/toolservers/internal/httputil"
	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultCheckTimeout = 5 * time.Second
	pageTimeout         = 10 * time.Second

	maxContentRunes = 10000
	maxPageBytes    = 10 << 20

	// MaxBatch is the most URLs check_multiple_urls will look at.
	MaxBatch       = 50
	defaultWorkers = 8
)

// Service performs the web operations with one shared client.
type Service struct {
	client  *http.Client
	workers int
}

// NewService returns a Service that sends cfg.UserAgent (or the browser
// User-Agent) on every request. Timeouts are set per request.
func NewService(cfg types.WebConfig) *Service {
	ua := cfg.UserAgent
	if ua == "" {
		ua = types.BrowserUserAgent
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{client: httputil.NewClient(0, ua), workers: workers}
}

// Page is the result of Fetch. On failure only Success and Error are set.
type Page struct {
	Success       bool              `json:"success"`
	StatusCode    int               `json:"status_code,omitempty"`
	URL           string            `json:"url,omitempty"`
	Content       string            `json:"content,omitempty"`
	ContentLength int               `json:"content_length,omitempty"`
	Encoding      string            `json:"encoding,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// Fetch GETs rawURL and returns the decoded body, cut to the first 10,000
// characters. ContentLength counts the characters of the whole body.
func (s *Service) Fetch(ctx context.Context, rawURL string, timeout time.Duration) Page {
	ctx, cancel := context.WithTimeout(ctx, orDefault(timeout, DefaultFetchTimeout))
	defer cancel()

	resp, err := s.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return Page{Error: failure(err, "Request timed out")}
	}
	defer resp.Body.Close()

	text, enc, err := readText(resp)
	if err != nil {
		return Page{Error: failure(err, "Request timed out")}
	}
	return Page{
		Success:       true,
		StatusCode:    resp.StatusCode,
		URL:           resp.Request.URL.String(),
		Content:       truncateRunes(text, maxContentRunes),
		ContentLength: utf8.RuneCountInString(text),
		Encoding:      enc,
		Headers:       flattenHeaders(resp.Header),
	}
}

// Status is the result of CheckStatus. Any HTTP response, whatever its code,
// makes a URL accessible. ResponseTimeSeconds is absent only on failure.
type Status struct {
	URL                 string  `json:"url"`
	Accessible          bool    `json:"accessible"`
	StatusCode          int     `json:"status_code,omitempty"`
	StatusMessage       string  `json:"status_message,omitempty"`
	ResponseTimeSeconds *float64 `json:"response_time_seconds,omitempty"`
	FinalURL            string  `json:"final_url,omitempty"`
	Redirected          bool    `json:"redirected"`
	Error               string  `json:"error,omitempty"`
}

// CheckStatus sends a HEAD request, following redirects, and measures the
// round trip.
func (s *Service) CheckStatus(ctx context.Context, rawURL string, timeout time.Duration) Status {
	ctx, cancel := context.WithTimeout(ctx, orDefault(timeout, DefaultCheckTimeout))
	defer cancel()

	start := time.Now()
	resp, err := s.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return Status{URL: rawURL, Error: failure(err, "Timeout")}
	}
	resp.Body.Close()
	elapsed := time.Since(start)

	final := resp.Request.URL.String()
	rt := math.Round(elapsed.Seconds()*1000) / 1000
	return Status{
		URL:                 rawURL,
		Accessible:          true,
		StatusCode:          resp.StatusCode,
		StatusMessage:       http.StatusText(resp.StatusCode),
		ResponseTimeSeconds: &rt,
		FinalURL:            final,
		Redirected:          final != rawURL,
	}
}

// URLCheck is one entry of CheckMultiple. StatusCode is null when the URL
// could not be reached.
type URLCheck struct {
	URL        string `json:"url"`
	Accessible bool   `json:"accessible"`
	StatusCode *int   `json:"status_code"`
	Error      string `json:"error,omitempty"`
}

// CheckMultiple HEADs the first MaxBatch URLs concurrently, at most
// s.workers at a time, and returns their results in input order. URLs past
// MaxBatch are ignored.
func (s *Service) CheckMultiple(ctx context.Context, urls []string, timeout time.Duration) []URLCheck {
	if len(urls) > MaxBatch {
		urls = urls[:MaxBatch]
	}
	timeout = orDefault(timeout, DefaultCheckTimeout)

	results := make([]URLCheck, len(urls))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.checkOne(ctx, u, timeout)
		}()
	}
	wg.Wait()
	return results
}

func (s *Service) checkOne(ctx context.Context, rawURL string, timeout time.Duration) URLCheck {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return URLCheck{URL: rawURL, Error: failure(err, "Timeout")}
	}
	resp.Body.Close()
	code := resp.StatusCode
	return URLCheck{URL: rawURL, Accessible: true, StatusCode: &code}
}

// FileInfo describes a remote file from its HEAD response. Size fields are
// null when the server sends no usable Content-Length.
type FileInfo struct {
	URL           string   `json:"url"`
	Accessible    bool     `json:"accessible"`
	StatusCode    int      `json:"status_code"`
	ContentType   *string  `json:"content_type"`
	FileSizeBytes *int64   `json:"file_size_bytes"`
	FileSizeMB    *float64 `json:"file_size_mb"`
	FinalURL      string   `json:"final_url"`
}

// FileInfo sends a HEAD request and reports type and size without
// downloading the body. Only a 200 response counts as accessible.
func (s *Service) FileInfo(ctx context.Context, rawURL string) (FileInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	resp, err := s.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return FileInfo{}, toolkit.Wrap(toolkit.KindUpstream, "Failed to get file info", err)
	}
	resp.Body.Close()

	info := FileInfo{
		URL:        rawURL,
		Accessible: resp.StatusCode == http.StatusOK,
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		info.ContentType = &ct
	}
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n >= 0 {
		mb := math.Round(float64(n)/(1024*1024)*100) / 100
		info.FileSizeBytes = &n
		info.FileSizeMB = &mb
	}
	return info, nil
}

// getPage fetches an HTML page for parsing and returns it decoded to UTF-8.
func (s *Service) getPage(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	resp, err := s.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return "", toolkit.Wrap(toolkit.KindUpstream, "fetching page", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", toolkit.Errorf(toolkit.KindUpstream, "fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}
	text, _, err := readText(resp)
	if err != nil {
		return "", toolkit.Wrap(toolkit.KindUpstream, "reading page", err)
	}
	return text, nil
}

func (s *Service) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return s.client.Do(req)
}

// readText reads the body and decodes it to UTF-8 using the Content-Type
// charset, a <meta> declaration, or content sniffing, in that order.
func readText(resp *http.Response) (string, string, error) {
	data, err := httputil.ReadLimited(resp.Body, maxPageBytes)
	if err != nil {
		return "", "", fmt.Errorf("reading body: %w", err)
	}
	enc, name, _ := charset.DetermineEncoding(data, resp.Header.Get("Content-Type"))
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), name, nil
	}
	return string(text), name, nil
}

// failure renders a request error for an in-band result, using timeoutMsg
// for timeouts.
func failure(err error, timeoutMsg string) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return timeoutMsg
	}
	return err.Error()
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
