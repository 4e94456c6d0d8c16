// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// CapabilityCache names the probe for a usable paper cache.
const CapabilityCache = "paper-cache"

type SearchInput struct {
	Topic      string `json:"topic" jsonschema:"research topic or keywords to search for"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results (default 5, max 20)"`
}

type SearchOutput struct {
	Topic    string   `json:"topic"`
	PaperIDs []string `json:"paper_ids"`
}

type AuthorInput struct {
	AuthorName string `json:"author_name" jsonschema:"full or partial author name"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results (default 5, max 15)"`
}

type AuthorOutput struct {
	Author string        `json:"author"`
	Papers []AuthorPaper `json:"papers"`
}

type PaperInput struct {
	PaperID string `json:"paper_id" jsonschema:"arXiv short ID, e.g. 2301.12345v1"`
}

// PaperInfo is a cached record with its ID.
type PaperInfo struct {
	PaperID    string   `json:"paper_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Summary    string   `json:"summary"`
	PDFURL     string   `json:"pdf_url"`
	Published  string   `json:"published"`
	Categories []string `json:"categories"`
}

type CiteInput struct {
	PaperID string `json:"paper_id" jsonschema:"arXiv short ID of a cached paper"`
	Format  string `json:"format,omitempty" jsonschema:"citation format: bibtex (default), apa, simple, or csl"`
}

type CiteOutput struct {
	PaperID  string `json:"paper_id"`
	Format   string `json:"format"`
	Citation string `json:"citation"`
}

// Register adds the paper tools and the cache probe to ts.
func (s *Service) Register(ts *toolkit.Service) {
	ts.Require(toolkit.Capability{Name: CapabilityCache, Check: s.store.Ping})

	ts.Add(
		toolkit.Define("search_papers",
			"Search arXiv for papers on a topic and cache their details. Returns paper IDs for use with extract_paper_info.",
			func(ctx context.Context, in SearchInput) (SearchOutput, error) {
				ids, err := s.Search(ctx, in.Topic, in.MaxResults)
				if err != nil {
					return SearchOutput{}, err
				}
				return SearchOutput{Topic: in.Topic, PaperIDs: ids}, nil
			}, CapabilityCache),

		toolkit.Define("extract_paper_info",
			"Get cached details for a paper found by search_papers: title, authors, abstract, PDF URL, and publication date.",
			func(ctx context.Context, in PaperInput) (PaperInfo, error) {
				r, err := s.Lookup(ctx, in.PaperID)
				if err != nil {
					return PaperInfo{}, err
				}
				return PaperInfo{
					PaperID:    in.PaperID,
					Title:      r.Title,
					Authors:    nonNil(r.Authors),
					Summary:    r.Summary,
					PDFURL:     r.PDFURL,
					Published:  r.Published,
					Categories: nonNil(r.Categories),
				}, nil
			}, CapabilityCache),

		toolkit.Define("search_papers_by_author",
			"Search arXiv for an author's most recent papers.",
			func(ctx context.Context, in AuthorInput) (AuthorOutput, error) {
				papers, err := s.SearchByAuthor(ctx, in.AuthorName, in.MaxResults)
				if err != nil {
					return AuthorOutput{}, err
				}
				return AuthorOutput{Author: in.AuthorName, Papers: papers}, nil
			}),

		toolkit.Define("get_paper_citation",
			"Format a citation for a cached paper in BibTeX, APA, simple, or CSL-YAML style.",
			func(ctx context.Context, in CiteInput) (CiteOutput, error) {
				c, f, err := s.Cite(ctx, in.PaperID, in.Format)
				if err != nil {
					return CiteOutput{}, err
				}
				return CiteOutput{PaperID: in.PaperID, Format: string(f), Citation: c}, nil
			}, CapabilityCache),
	)
}
