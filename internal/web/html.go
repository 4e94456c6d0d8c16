// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

const (
	maxElements     = 50
	maxElementHTML  = 500
	maxScrapedRunes = 5000
	noTitle         = "No title"
)

// Links lists the anchors of a page split by host. Links is the internal
// set again, present only when external links were filtered out.
type Links struct {
	URL           string   `json:"url"`
	TotalLinks    int      `json:"total_links"`
	InternalLinks []string `json:"internal_links"`
	ExternalLinks []string `json:"external_links"`
	Links         []string `json:"links,omitempty"`
}

// ExtractLinks resolves every <a href> against the page URL. A link is
// internal when it has the page's host or no host at all. TotalLinks counts
// anchors before de-duplication.
func (s *Service) ExtractLinks(ctx context.Context, pageURL string, filterExternal bool) (Links, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return Links{}, toolkit.InvalidInput("Failed to extract links: %v", err)
	}
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return Links{}, err
	}

	internal := map[string]struct{}{}
	external := map[string]struct{}{}
	total := 0
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		total++
		abs := ref.String()
		if ref.Host == "" || ref.Host == base.Host {
			internal[abs] = struct{}{}
		} else {
			external[abs] = struct{}{}
		}
	})

	out := Links{
		URL:           pageURL,
		TotalLinks:    total,
		InternalLinks: sortedKeys(internal),
		ExternalLinks: sortedKeys(external),
	}
	if filterExternal {
		out.Links = out.InternalLinks
	}
	return out, nil
}

// Element is one selector match.
type Element struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Scraped is the result of Scrape. Selector, Count, and Elements are set
// when a selector was given, even with no matches; Title, Text, and
// TextLength otherwise.
type Scraped struct {
	URL        string    `json:"url"`
	Selector   string    `json:"selector,omitempty"`
	Count      *int      `json:"count,omitempty"`
	Elements   []Element `json:"elements,omitzero"`
	Title      string    `json:"title,omitempty"`
	Text       string    `json:"text,omitempty"`
	TextLength int       `json:"text_length,omitempty"`
}

// Scrape returns up to 50 elements matching selector, or, with no selector,
// the page title and its visible text without scripts and styles.
func (s *Service) Scrape(ctx context.Context, pageURL, selector string) (Scraped, error) {
	var m goquery.Matcher
	if selector != "" {
		sel, err := cascadia.Compile(selector)
		if err != nil {
			return Scraped{}, toolkit.InvalidInput("invalid CSS selector %q: %v", selector, err)
		}
		m = sel
	}
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return Scraped{}, err
	}

	if m != nil {
		out := Scraped{URL: pageURL, Selector: selector, Elements: []Element{}}
		matches := doc.FindMatcher(m)
		for i := 0; i < matches.Length() && i < maxElements; i++ {
			el := matches.Eq(i)
			h, err := goquery.OuterHtml(el)
			if err != nil {
				return Scraped{}, toolkit.Wrap(toolkit.KindInternal, "rendering element", err)
			}
			out.Elements = append(out.Elements, Element{
				Text: strippedText(el.Nodes[0]),
				HTML: truncateRunes(h, maxElementHTML),
			})
		}
		n := len(out.Elements)
		out.Count = &n
		return out, nil
	}

	title := noTitle
	if t := doc.Find("title").First(); t.Length() > 0 {
		title = t.Text()
	}
	doc.Find("script, style").Remove()
	text := visibleText(doc.Nodes[0], "\n")
	return Scraped{
		URL:        pageURL,
		Title:      title,
		Text:       truncateRunes(text, maxScrapedRunes),
		TextLength: utf8.RuneCountInString(text),
	}, nil
}

// PageMetadata holds a page's title, standard meta tags, and Open Graph
// properties. Absent values are null.
type PageMetadata struct {
	URL           string  `json:"url"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Keywords      *string `json:"keywords"`
	Author        *string `json:"author"`
	OGTitle       *string `json:"og_title"`
	OGDescription *string `json:"og_description"`
	OGImage       *string `json:"og_image"`
}

// Metadata reads the title and meta tags of pageURL.
func (s *Service) Metadata(ctx context.Context, pageURL string) (PageMetadata, error) {
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return PageMetadata{}, err
	}
	md := PageMetadata{
		URL:           pageURL,
		Description:   metaContent(doc, "name", "description"),
		Keywords:      metaContent(doc, "name", "keywords"),
		Author:        metaContent(doc, "name", "author"),
		OGTitle:       metaContent(doc, "property", "og:title"),
		OGDescription: metaContent(doc, "property", "og:description"),
		OGImage:       metaContent(doc, "property", "og:image"),
	}
	if t := doc.Find("title").First(); t.Length() > 0 {
		title := t.Text()
		md.Title = &title
	}
	return md, nil
}

func (s *Service) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	text, err := s.getPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, toolkit.Wrap(toolkit.KindUpstream, "parsing page", err)
	}
	return doc, nil
}

func metaContent(doc *goquery.Document, attr, name string) *string {
	var out *string
	doc.Find("meta").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		if v, _ := m.Attr(attr); v != name {
			return true
		}
		if c, ok := m.Attr("content"); ok {
			out = &c
		}
		return false
	})
	return out
}

// visibleText joins the trimmed, non-empty text nodes under n with sep.
func visibleText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

func strippedText(n *html.Node) string {
	return visibleText(n, "")
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

const probeHTML = `<html><head><title>probe</title></head><body><a href="/x">x</a></body></html>`

// CheckParser parses a fixed page and verifies the title and link come back.
func CheckParser(context.Context) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(probeHTML))
	if err != nil {
		return err
	}
	if doc.Find("title").Text() != "probe" || doc.Find("a[href]").Length() != 1 {
		return errors.New("html parser returned unexpected content")
	}
	return nil
}
