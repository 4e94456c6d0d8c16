// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"strings"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// URLParts is a URL split into its components. Every component is returned
// as written; nothing is percent-decoded or re-encoded.
type URLParts struct {
	URL         string            `json:"url"`
	Scheme      string            `json:"scheme"`
	Domain      string            `json:"domain"`
	Path        string            `json:"path"`
	Query       string            `json:"query"`
	QueryParams map[string]string `json:"query_params"`
	Fragment    string            `json:"fragment"`
	IsSecure    bool              `json:"is_secure"`
}

// ParseURL splits rawURL into scheme, authority, path, query, and fragment
// without validating escapes or host characters. Only an authority with an
// unbalanced IPv6 bracket is rejected. The query string is split on '&' and
// each pair on its first '='; pairs without '=' are dropped and a repeated
// key keeps its last value.
func ParseURL(rawURL string) (URLParts, error) {
	rest := strings.TrimLeft(rawURL, "\x00\x01\x02\x03\x04\x05\x06\x07\x08\t\n\x0b\x0c\r\x0e\x0f"+
		"\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\x1a\x1b\x1c\x1d\x1e\x1f ")
	rest = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(rest)

	var p URLParts
	if scheme, after, ok := strings.Cut(rest, ":"); ok && validScheme(scheme) {
		p.Scheme = strings.ToLower(scheme)
		rest = after
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.Domain, rest = rest[:end], rest[end:]
		if strings.Count(p.Domain, "[") != strings.Count(p.Domain, "]") {
			return URLParts{}, toolkit.InvalidInput("Failed to parse URL: invalid IPv6 authority %q", p.Domain)
		}
	}
	rest, p.Fragment, _ = strings.Cut(rest, "#")
	p.Path, p.Query, _ = strings.Cut(rest, "?")

	p.QueryParams = map[string]string{}
	if p.Query != "" {
		for _, pair := range strings.Split(p.Query, "&") {
			if k, v, ok := strings.Cut(pair, "="); ok {
				p.QueryParams[k] = v
			}
		}
	}
	p.URL = rawURL
	p.IsSecure = p.Scheme == "https"
	return p, nil
}

// validScheme reports whether s is a URL scheme: a letter followed by
// letters, digits, '+', '-', or '.'.
func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
