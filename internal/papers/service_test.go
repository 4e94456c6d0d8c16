// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

// fakeIndex returns a fixed result set and records the last query.
type fakeIndex struct {
	mu     sync.Mutex
	papers []types.Paper
	err    error
	last   Query
}

func (f *fakeIndex) Search(_ context.Context, q Query) ([]types.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	n := min(q.MaxResults, len(f.papers))
	return f.papers[:n], nil
}

func paper(id, title string) types.Paper {
	r := sampleRecord(title)
	r.PDFURL = "http://arxiv.org/pdf/" + id
	return types.Paper{ID: id, Record: r}
}

func newTestService(t *testing.T, papers ...types.Paper) (*Service, *fakeIndex) {
	t.Helper()
	idx := &fakeIndex{papers: papers}
	return NewService(idx, NewFileStore(t.TempDir())), idx
}

func TestSearchCachesUnderNormalizedTopic(t *testing.T) {
	svc, idx := newTestService(t, paper("1v1", "One"), paper("2v1", "Two"))
	ctx := context.Background()

	ids, err := svc.Search(ctx, "Machine Learning", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1v1", "2v1"}, ids)
	assert.Equal(t, 5, idx.last.MaxResults)
	assert.Equal(t, SortRelevance, idx.last.SortBy)
	assert.Equal(t, "Machine Learning", idx.last.SearchQuery)

	cached, err := svc.Store().Topic(ctx, "machine_learning")
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestSearchAdditiveAcrossCalls(t *testing.T) {
	svc, idx := newTestService(t, paper("1v1", "One"))
	ctx := context.Background()

	_, err := svc.Search(ctx, "topic", 5)
	require.NoError(t, err)

	idx.papers = []types.Paper{paper("2v1", "Two")}
	_, err = svc.Search(ctx, "topic", 5)
	require.NoError(t, err)

	cached, err := svc.Store().Topic(ctx, "topic")
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.Contains(t, cached, "1v1")
	assert.Contains(t, cached, "2v1")
}

// sequenceIndex returns one new paper per call.
type sequenceIndex struct {
	n atomic.Int32
}

func (s *sequenceIndex) Search(context.Context, Query) ([]types.Paper, error) {
	id := fmt.Sprintf("%dv1", s.n.Add(1))
	return []types.Paper{paper(id, id)}, nil
}

func TestSearchConcurrentSameTopic(t *testing.T) {
	svc := NewService(&sequenceIndex{}, NewFileStore(t.TempDir()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := svc.Search(ctx, "shared topic", 5)
			assert.NoError(t, err)
			assert.Len(t, ids, 1)
		}()
	}
	wg.Wait()

	cached, err := svc.Store().Topic(ctx, "shared_topic")
	require.NoError(t, err)
	assert.Len(t, cached, 20)
	assert.Empty(t, svc.locks.m)
}

func TestSearchClampsMaxResults(t *testing.T) {
	svc, idx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, "x", 100)
	require.NoError(t, err)
	assert.Equal(t, 20, idx.last.MaxResults)

	_, err = svc.SearchByAuthor(ctx, "someone", 100)
	require.NoError(t, err)
	assert.Equal(t, 15, idx.last.MaxResults)
}

func TestSearchValidation(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Search(context.Background(), " ", 5)
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))

	_, err = svc.SearchByAuthor(context.Background(), "", 5)
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
}

func TestSearchRejectsUnusableTopic(t *testing.T) {
	svc, idx := newTestService(t, paper("1v1", "One"))
	for _, topic := range []string{".", ".."} {
		_, err := svc.Search(context.Background(), topic, 5)
		assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err), topic)
	}
	assert.Zero(t, idx.last, "index should not be queried")
}

func TestSearchIndexFailure(t *testing.T) {
	svc, idx := newTestService(t)
	idx.err = toolkit.Errorf(toolkit.KindUpstream, "arXiv API returned HTTP 503")

	_, err := svc.Search(context.Background(), "topic", 5)
	assert.Equal(t, toolkit.KindUpstream, toolkit.KindOf(err))
}

func TestSearchByAuthorDoesNotCache(t *testing.T) {
	svc, idx := newTestService(t, paper("9v2", "Nine"))
	ctx := context.Background()

	got, err := svc.SearchByAuthor(ctx, "Ada Lovelace", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, AuthorPaper{
		PaperID:   "9v2",
		Title:     "Nine",
		Published: "2023-01-15",
		Authors:   []string{"Ada Lovelace", "Charles Babbage"},
	}, got[0])
	assert.Equal(t, "au:Ada Lovelace", idx.last.SearchQuery)
	assert.Equal(t, SortSubmittedDate, idx.last.SortBy)

	_, ok, err := svc.Store().Find(ctx, "9v2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupMatchesStoredRecord(t *testing.T) {
	p := paper("2301.12345v1", "Stored")
	svc, _ := newTestService(t, p)
	ctx := context.Background()

	_, err := svc.Search(ctx, "anything", 5)
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, "2301.12345v1")
	require.NoError(t, err)
	assert.Equal(t, p.Record, got)

	_, err = svc.Lookup(ctx, "nope")
	assert.Equal(t, toolkit.KindNotFound, toolkit.KindOf(err))

	_, err = svc.Lookup(ctx, "")
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
}

func TestCiteUncachedPaper(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Cite(context.Background(), "missing", "bibtex")
	assert.Equal(t, toolkit.KindNotFound, toolkit.KindOf(err))

	_, _, err = svc.Cite(context.Background(), "missing", "mla")
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
}

func TestCiteDefaultsToBibTeX(t *testing.T) {
	svc, _ := newTestService(t, paper("1v1", "Title"))
	ctx := context.Background()
	_, err := svc.Search(ctx, "t", 5)
	require.NoError(t, err)

	c, f, err := svc.Cite(ctx, "1v1", "")
	require.NoError(t, err)
	assert.Equal(t, FormatBibTeX, f)
	assert.Contains(t, c, "@article{1v1,")
}

func TestPaperToolsOverMCP(t *testing.T) {
	svc, _ := newTestService(t, paper("1v1", "Title"))
	ts := toolkit.NewService("research", "test", nil)
	svc.Register(ts)
	require.Empty(t, ts.Probe(context.Background()))

	ctx := context.Background()
	session := connect(t, ts)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search_papers",
		Arguments: map[string]any{"topic": "t"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, map[string]any{"topic": "t", "paper_ids": []any{"1v1"}}, res.StructuredContent)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_paper_citation",
		Arguments: map[string]any{"paper_id": "1v1", "format": "simple"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := res.StructuredContent.(map[string]any)
	assert.Equal(t, "Ada Lovelace (2023). Title. arXiv:1v1", out["citation"])

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "extract_paper_info",
		Arguments: map[string]any{"paper_id": "unknown"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestPaperToolsUnavailableWithoutCache(t *testing.T) {
	idx := &fakeIndex{}
	svc := NewService(idx, brokenStore{})
	ts := toolkit.NewService("research", "test", nil)
	svc.Register(ts)

	assert.Equal(t, []string{CapabilityCache}, ts.Probe(context.Background()))
	assert.NotEmpty(t, ts.Unavailable("search_papers"))
	assert.Empty(t, ts.Unavailable("search_papers_by_author"))
}

func connect(t *testing.T, ts *toolkit.Service) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := ts.MCPServer().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

type brokenStore struct{}

func (brokenStore) Topic(context.Context, string) (map[string]types.PaperRecord, error) {
	return nil, errors.New("broken")
}

func (brokenStore) Upsert(context.Context, string, map[string]types.PaperRecord) error {
	return errors.New("broken")
}

func (brokenStore) Find(context.Context, string) (types.PaperRecord, bool, error) {
	return types.PaperRecord{}, false, errors.New("broken")
}

func (brokenStore) Ping(context.Context) error { return errors.New("cache directory not writable") }

func (brokenStore) Close() error { return nil }
