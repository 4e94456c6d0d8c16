// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package documents downloads PDFs and extracts their text, tables, and
// metadata, and provides plain-text analytics.
package documents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/toolservers/internal/httputil"
	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

const (
	defaultDownloadTimeout = 30 * time.Second
	defaultMaxDownload     = 50 << 20

	// notAvailable fills metadata fields the document does not set.
	notAvailable = "N/A"
)

// Metadata is the document information dictionary plus the page count.
type Metadata struct {
	NumPages     int    `json:"num_pages"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Subject      string `json:"subject"`
	Creator      string `json:"creator"`
	Producer     string `json:"producer"`
	CreationDate string `json:"creation_date"`
}

// Service fetches and parses PDFs.
type Service struct {
	client   *http.Client
	maxBytes int64
}

// NewService builds a Service from cfg, applying the 30s timeout and 50 MiB
// size defaults.
func NewService(cfg types.DocumentsConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	maxBytes := cfg.MaxDownloadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDownload
	}
	return &Service{
		client:   httputil.NewClient(timeout, cfg.UserAgent),
		maxBytes: maxBytes,
	}
}

// download fetches rawURL and returns the body.
func (s *Service) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, toolkit.InvalidInput("pdf_url must be an absolute http(s) URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindInternal, "creating request", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindUpstream, "downloading PDF", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, toolkit.Errorf(toolkit.KindUpstream, "downloading PDF: HTTP %d", resp.StatusCode)
	}

	data, err := httputil.ReadLimited(resp.Body, s.maxBytes)
	if errors.Is(err, httputil.ErrTooLarge) {
		return nil, toolkit.Errorf(toolkit.KindInvalidInput, "PDF exceeds %d bytes", s.maxBytes)
	}
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindUpstream, "reading PDF", err)
	}
	return data, nil
}

// open downloads and parses a PDF.
func (s *Service) open(ctx context.Context, rawURL string) (*pdf.Reader, error) {
	data, err := s.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	r, err := openPDF(data)
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindInvalidInput, "parsing PDF", err)
	}
	return r, nil
}

// ExtractText returns the text of every page, pages separated by a blank
// line, along with the page count.
func (s *Service) ExtractText(ctx context.Context, rawURL string) (string, int, error) {
	r, err := s.open(ctx, rawURL)
	if err != nil {
		return "", 0, err
	}
	text, err := documentText(r)
	if err != nil {
		return "", 0, toolkit.Wrap(toolkit.KindInvalidInput, "extracting text", err)
	}
	return text, r.NumPage(), nil
}

func documentText(r *pdf.Reader) (string, error) {
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		text, err := pageText(r.Page(i))
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// ExtractTables returns the tables on one page, or on every page when page
// is zero.
func (s *Service) ExtractTables(ctx context.Context, rawURL string, page int) ([]Table, error) {
	if page < 0 {
		return nil, toolkit.InvalidInput("page_number must be positive, got %d", page)
	}
	r, err := s.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	n := r.NumPage()
	first, last := 1, n
	if page > 0 {
		if page > n {
			return nil, toolkit.InvalidInput("page_number %d out of range (document has %d pages)", page, n)
		}
		first, last = page, page
	}

	tables := []Table{}
	for i := first; i <= last; i++ {
		rows, err := pageRows(r.Page(i))
		if err != nil {
			return nil, toolkit.Wrap(toolkit.KindInvalidInput, fmt.Sprintf("reading page %d", i), err)
		}
		tables = append(tables, findTables(i, rows)...)
	}
	return tables, nil
}

// PageCount returns the number of pages.
func (s *Service) PageCount(ctx context.Context, rawURL string) (int, error) {
	r, err := s.open(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// Metadata reads the information dictionary. Absent fields are "N/A".
func (s *Service) Metadata(ctx context.Context, rawURL string) (Metadata, error) {
	r, err := s.open(ctx, rawURL)
	if err != nil {
		return Metadata{}, err
	}
	return readMetadata(r), nil
}

func readMetadata(r *pdf.Reader) Metadata {
	field := func(key string) string {
		if v := infoField(r, key); v != "" {
			return v
		}
		return notAvailable
	}
	return Metadata{
		NumPages:     r.NumPage(),
		Title:        field("Title"),
		Author:       field("Author"),
		Subject:      field("Subject"),
		Creator:      field("Creator"),
		Producer:     field("Producer"),
		CreationDate: field("CreationDate"),
	}
}

// CheckParser parses the embedded probe document and verifies its text.
func CheckParser(context.Context) error {
	r, err := openPDF(probePDF())
	if err != nil {
		return err
	}
	text, err := documentText(r)
	if err != nil {
		return err
	}
	if !strings.Contains(text, probeText) {
		return fmt.Errorf("probe text not recovered (got %q)", text)
	}
	return nil
}
