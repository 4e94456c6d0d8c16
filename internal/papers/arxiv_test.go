// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolservers/internal/httputil"
	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
      You Need</title>
    <summary>
  We propose a new architecture based solely on attention mechanisms.
</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce BERT.</summary>
    <published>2018-10-11T00:00:00Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func arxivServer(t *testing.T, handler http.HandlerFunc) *ArxivClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return &ArxivClient{Client: ts.Client(), APIBase: ts.URL, UserAgent: "test/0.1"}
}

func TestArxivClientSearch(t *testing.T) {
	var got url.Values
	c := arxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleArxivFeed)
	})

	papers, err := c.Search(context.Background(), Query{SearchQuery: "attention", MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "attention", got.Get("search_query"))
	assert.Equal(t, "5", got.Get("max_results"))
	assert.Equal(t, "relevance", got.Get("sortBy"))
	assert.Equal(t, "descending", got.Get("sortOrder"))

	p := papers[0]
	assert.Equal(t, "1706.03762v7", p.ID)
	assert.Equal(t, "Attention Is All You Need", p.Record.Title)
	assert.Equal(t, "We propose a new architecture based solely on attention mechanisms.", p.Record.Summary)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Record.Authors)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", p.Record.PDFURL)
	assert.Equal(t, "2017-06-12", p.Record.Published)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, p.Record.Categories)

	bert := papers[1]
	assert.Equal(t, "1810.04805v2", bert.ID)
	assert.Equal(t, "http://arxiv.org/pdf/1810.04805v2", bert.Record.PDFURL)
	assert.Equal(t, []string{}, bert.Record.Categories)
}

func TestArxivClientSortByDate(t *testing.T) {
	var got url.Values
	c := arxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	})

	papers, err := c.Search(context.Background(), Query{
		SearchQuery: authorQuery("Geoffrey Hinton"),
		MaxResults:  3,
		SortBy:      SortSubmittedDate,
	})
	require.NoError(t, err)
	assert.Empty(t, papers)
	assert.Equal(t, "au:Geoffrey Hinton", got.Get("search_query"))
	assert.Equal(t, "submittedDate", got.Get("sortBy"))
}

func TestArxivClientRetriesRateLimit(t *testing.T) {
	calls := 0
	c := arxivServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, sampleArxivFeed)
	})

	papers, err := c.Search(context.Background(), Query{SearchQuery: "attention", MaxResults: 5})
	require.NoError(t, err)
	assert.Len(t, papers, 2)
	assert.Equal(t, 2, calls)
}

func TestArxivClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr toolkit.Kind
	}{
		{"server error", http.StatusInternalServerError, "", toolkit.KindUpstream},
		{"bad xml", http.StatusOK, "<feed><entry>", toolkit.KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := arxivServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.Search(context.Background(), Query{SearchQuery: "x", MaxResults: 1})
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, toolkit.KindOf(err))
		})
	}
}

func TestArxivClientEmptyQuery(t *testing.T) {
	c := &ArxivClient{}
	_, err := c.Search(context.Background(), Query{SearchQuery: "  "})
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
}

func TestNewArxivClientDefaults(t *testing.T) {
	c := NewArxivClient(types.PapersConfig{})
	assert.Equal(t, DefaultArxivAPIBase, c.APIBase)
	assert.Equal(t, 30*time.Second, c.Client.Timeout)
}

func TestShortID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/2301.12345", "2301.12345"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "hep-th/9901001v1"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shortID(tt.input))
		})
	}
}

func TestPublishedDate(t *testing.T) {
	assert.Equal(t, "2017-06-12", publishedDate("2017-06-12T17:57:34Z"))
	assert.Equal(t, "2017-06-12", publishedDate("2017-06-12 garbage"))
	assert.Equal(t, "2017", publishedDate("2017"))
}
