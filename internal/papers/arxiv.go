// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/toolservers/internal/httputil"
	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

// DefaultArxivAPIBase is the arXiv search endpoint.
const DefaultArxivAPIBase = "https://export.arxiv.org/api/query"

// SortBy selects the arXiv result ordering.
type SortBy string

const (
	SortRelevance     SortBy = "relevance"
	SortSubmittedDate SortBy = "submittedDate"
)

// Query is one request to the paper index.
type Query struct {
	// SearchQuery is passed through to arXiv's search_query parameter.
	SearchQuery string
	MaxResults  int
	SortBy      SortBy
}

// Index searches an external paper index. The arXiv client implements it;
// tests substitute a fixed result set.
type Index interface {
	Search(ctx context.Context, q Query) ([]types.Paper, error)
}

// ArxivClient queries the arXiv Atom API.
type ArxivClient struct {
	Client     *http.Client
	APIBase    string
	UserAgent  string
	MaxRetries int
}

// NewArxivClient builds a client from the papers configuration.
func NewArxivClient(cfg types.PapersConfig) *ArxivClient {
	base := cfg.APIBase
	if base == "" {
		base = DefaultArxivAPIBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ArxivClient{
		Client:     httputil.NewClient(timeout, cfg.UserAgent),
		APIBase:    base,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// Search runs q against arXiv and returns papers in the order arXiv ranked
// them. Rate-limit responses are retried; other failures are upstream errors.
func (c *ArxivClient) Search(ctx context.Context, q Query) ([]types.Paper, error) {
	if strings.TrimSpace(q.SearchQuery) == "" {
		return nil, toolkit.InvalidInput("empty arXiv query")
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortRelevance
	}

	params := url.Values{}
	params.Set("search_query", q.SearchQuery)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(q.MaxResults))
	params.Set("sortBy", string(sortBy))
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindInternal, "creating arXiv request", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindUpstream, "arXiv API request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, toolkit.Errorf(toolkit.KindUpstream, "arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, toolkit.Wrap(toolkit.KindUpstream, "parsing arXiv response", err)
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := shortID(entry.ID)
		if id == "" {
			continue
		}
		papers = append(papers, types.Paper{ID: id, Record: entry.record(id)})
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Links      []arxivLink     `xml:"link"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

func (e arxivEntry) record(id string) types.PaperRecord {
	r := types.PaperRecord{
		Title:      strings.Join(strings.Fields(e.Title), " "),
		Summary:    strings.TrimSpace(e.Summary),
		Published:  publishedDate(e.Published),
		Authors:    []string{},
		Categories: []string{},
	}
	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			r.Categories = append(r.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			r.PDFURL = l.Href
			break
		}
	}
	if r.PDFURL == "" {
		r.PDFURL = "http://arxiv.org/pdf/" + id
	}
	return r
}

// shortID pulls the short ID from the entry's <id> URL, keeping the version
// suffix (e.g. "http://arxiv.org/abs/2301.07041v2" → "2301.07041v2").
func shortID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(idURL[idx+len(prefix):])
}

// publishedDate reduces an RFC 3339 timestamp to its calendar date.
func publishedDate(ts string) string {
	ts = strings.TrimSpace(ts)
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	if len(ts) >= len(time.DateOnly) {
		return ts[:len(time.DateOnly)]
	}
	return ts
}

// authorQuery scopes a search to the author field.
func authorQuery(name string) string {
	return fmt.Sprintf("au:%s", strings.TrimSpace(name))
}
