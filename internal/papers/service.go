// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package papers searches arXiv, caches paper records per topic, and formats
// citations from the cache.
package papers

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

const (
	defaultMaxResults = 5
	maxTopicResults   = 20
	maxAuthorResults  = 15
)

// AuthorPaper is one row of an author search.
type AuthorPaper struct {
	PaperID   string   `json:"paper_id"`
	Title     string   `json:"title"`
	Published string   `json:"published"`
	Authors   []string `json:"authors"`
}

// Service implements the paper operations over an Index and a Store.
type Service struct {
	index Index
	store Store
	locks topicLocks
}

// NewService returns a Service that searches index and caches into store.
func NewService(index Index, store Store) *Service {
	return &Service{index: index, store: store}
}

// Store returns the service's cache.
func (s *Service) Store() Store { return s.store }

// Search queries the index for topic, merges every result into the topic's
// cache, and returns the short IDs in rank order.
func (s *Service) Search(ctx context.Context, topic string, maxResults int) ([]string, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, toolkit.InvalidInput("topic is required")
	}
	key := types.NormalizeTopic(topic)
	if err := ValidateTopic(key); err != nil {
		return nil, err
	}
	papers, err := s.index.Search(ctx, Query{
		SearchQuery: topic,
		MaxResults:  clampResults(maxResults, maxTopicResults),
		SortBy:      SortRelevance,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(papers))
	records := make(map[string]types.PaperRecord, len(papers))
	for _, p := range papers {
		ids = append(ids, p.ID)
		records[p.ID] = p.Record
	}

	release := s.locks.acquire(key)
	defer release()
	if err := s.store.Upsert(ctx, key, records); err != nil {
		return nil, toolkit.Wrap(toolkit.KindInternal, "updating topic cache", err)
	}
	return ids, nil
}

// SearchByAuthor lists the author's most recent submissions. It does not
// touch the cache.
func (s *Service) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]AuthorPaper, error) {
	if strings.TrimSpace(author) == "" {
		return nil, toolkit.InvalidInput("author_name is required")
	}
	papers, err := s.index.Search(ctx, Query{
		SearchQuery: authorQuery(author),
		MaxResults:  clampResults(maxResults, maxAuthorResults),
		SortBy:      SortSubmittedDate,
	})
	if err != nil {
		return nil, err
	}

	out := make([]AuthorPaper, 0, len(papers))
	for _, p := range papers {
		out = append(out, AuthorPaper{
			PaperID:   p.ID,
			Title:     p.Record.Title,
			Published: p.Record.Published,
			Authors:   nonNil(p.Record.Authors),
		})
	}
	return out, nil
}

// Lookup returns the cached record for id.
func (s *Service) Lookup(ctx context.Context, id string) (types.PaperRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.PaperRecord{}, toolkit.InvalidInput("paper_id is required")
	}
	r, ok, err := s.store.Find(ctx, id)
	if err != nil {
		return types.PaperRecord{}, toolkit.Wrap(toolkit.KindInternal, "reading paper cache", err)
	}
	if !ok {
		return types.PaperRecord{}, toolkit.NotFound("no information found for paper %s; try searching first", id)
	}
	return r, nil
}

// Cite renders a citation for a cached paper.
func (s *Service) Cite(ctx context.Context, id, format string) (string, Format, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", "", err
	}
	r, err := s.Lookup(ctx, id)
	if err != nil {
		return "", "", err
	}
	c, err := Cite(strings.TrimSpace(id), r, f)
	if err != nil {
		return "", "", err
	}
	return c, f, nil
}

// clampResults applies the default for non-positive values and the cap.
func clampResults(n, limit int) int {
	if n <= 0 {
		return defaultMaxResults
	}
	if n > limit {
		return limit
	}
	return n
}

// topicLocks serializes cache writes per topic. Entries are dropped when no
// caller holds or waits on them.
type topicLocks struct {
	mu sync.Mutex
	m  map[string]*topicLock
}

type topicLock struct {
	mu   sync.Mutex
	refs int
}

func (l *topicLocks) acquire(topic string) (release func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*topicLock)
	}
	tl := l.m[topic]
	if tl == nil {
		tl = &topicLock{}
		l.m[topic] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.m, topic)
		}
		l.mu.Unlock()
	}
}
