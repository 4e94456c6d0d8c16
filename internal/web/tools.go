// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"time"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// CapabilityParser names the HTML parser self-check.
const CapabilityParser = "html-parser"

type FetchInput struct {
	URL     string `json:"url" jsonschema:"page to fetch"`
	Timeout int    `json:"timeout,omitempty" jsonschema:"request timeout in seconds (default 10)"`
}

type CheckInput struct {
	URL     string `json:"url" jsonschema:"URL to check"`
	Timeout int    `json:"timeout,omitempty" jsonschema:"request timeout in seconds (default 5)"`
}

type LinksInput struct {
	URL            string `json:"url" jsonschema:"page to read links from"`
	FilterExternal bool   `json:"filter_external,omitempty" jsonschema:"also return only same-host links under links"`
}

type ScrapeInput struct {
	URL         string `json:"url" jsonschema:"page to scrape"`
	CSSSelector string `json:"css_selector,omitempty" jsonschema:"CSS selector for the elements to return"`
}

type URLInput struct {
	URL string `json:"url" jsonschema:"URL to inspect"`
}

type MultipleInput struct {
	URLs    []string `json:"urls" jsonschema:"URLs to check; only the first 50 are used"`
	Timeout int      `json:"timeout,omitempty" jsonschema:"timeout per URL in seconds (default 5)"`
}

type MultipleOutput struct {
	Checked int        `json:"checked"`
	Results []URLCheck `json:"results"`
}

// Register adds the web tools and the HTML parser probe to ts.
func (s *Service) Register(ts *toolkit.Service) {
	ts.Require(toolkit.Capability{Name: CapabilityParser, Check: CheckParser})

	ts.Add(
		toolkit.Define("fetch_webpage",
			"Fetch a page and return its status, headers, encoding, and first 10,000 characters.",
			func(ctx context.Context, in FetchInput) (Page, error) {
				return s.Fetch(ctx, in.URL, seconds(in.Timeout)), nil
			}),

		toolkit.Define("check_url_status",
			"Check whether a URL answers a HEAD request, following redirects, and time the round trip.",
			func(ctx context.Context, in CheckInput) (Status, error) {
				return s.CheckStatus(ctx, in.URL, seconds(in.Timeout)), nil
			}),

		toolkit.Define("extract_links",
			"List the links on a page, split into internal and external.",
			func(ctx context.Context, in LinksInput) (Links, error) {
				return s.ExtractLinks(ctx, in.URL, in.FilterExternal)
			}, CapabilityParser),

		toolkit.Define("scrape_webpage",
			"Return elements matching a CSS selector, or the page title and visible text when no selector is given.",
			func(ctx context.Context, in ScrapeInput) (Scraped, error) {
				return s.Scrape(ctx, in.URL, in.CSSSelector)
			}, CapabilityParser),

		toolkit.Define("extract_metadata",
			"Read a page's title, description, keywords, author, and Open Graph tags.",
			func(ctx context.Context, in URLInput) (PageMetadata, error) {
				return s.Metadata(ctx, in.URL)
			}, CapabilityParser),

		toolkit.Define("parse_url",
			"Split a URL into scheme, domain, path, query parameters, and fragment.",
			func(_ context.Context, in URLInput) (URLParts, error) {
				return ParseURL(in.URL)
			}),

		toolkit.Define("download_file_info",
			"Report a file's type and size from a HEAD request without downloading it.",
			func(ctx context.Context, in URLInput) (FileInfo, error) {
				return s.FileInfo(ctx, in.URL)
			}),

		toolkit.Define("check_multiple_urls",
			"Check up to 50 URLs concurrently and report which answer.",
			func(ctx context.Context, in MultipleInput) (MultipleOutput, error) {
				res := s.CheckMultiple(ctx, in.URLs, seconds(in.Timeout))
				return MultipleOutput{Checked: len(res), Results: res}, nil
			}),
	)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
