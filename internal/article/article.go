// Package article defines the indexed article and the deduplicating
// repository the ingestion pipeline writes into.
//
// Two articles are the same logical article when their titles are exactly
// equal and their addresses share a host. An Article is immutable once built.
package article

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

// Fields holds the metadata extracted from one feed entry. Absent values are
// empty strings.
type Fields struct {
	Title         string
	Description   string
	Address       string
	PublishedDate string
}

// Article is one successfully fetched and indexed feed entry.
type Article struct {
	Title         string
	Description   string
	Address       string
	PublishedDate string

	host        string
	frequencies map[string]int
	tokenCount  int
}

// ParseAddress validates an article address. Only absolute http and https
// URLs with a host are accepted.
func ParseAddress(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing address", apperrors.ErrArticleAddress)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrArticleAddress, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme in %q", apperrors.ErrArticleAddress, raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", apperrors.ErrArticleAddress, raw)
	}
	return u, nil
}

// New builds an Article from entry metadata and the fetched content at its
// address. It fails with ErrArticleAddress when the address is absent or
// malformed.
func New(f Fields, content string) (*Article, error) {
	u, err := ParseAddress(f.Address)
	if err != nil {
		return nil, err
	}
	freq := tokenizer.Frequencies(content)
	total := 0
	for _, n := range freq {
		total += n
	}
	return &Article{
		Title:         f.Title,
		Description:   f.Description,
		Address:       f.Address,
		PublishedDate: f.PublishedDate,
		host:          u.Hostname(),
		frequencies:   freq,
		tokenCount:    total,
	}, nil
}

// Occurrences returns how many times term appears in the article content.
// term is lowercased before lookup.
func (a *Article) Occurrences(term string) int {
	return a.frequencies[strings.ToLower(term)]
}

// DistinctTerms returns the number of distinct terms in the content.
func (a *Article) DistinctTerms() int {
	return len(a.frequencies)
}

// TokenCount returns the total number of terms in the content.
func (a *Article) TokenCount() int {
	return a.tokenCount
}

// Host returns the host component of the address.
func (a *Article) Host() string {
	return a.host
}

// SameAs reports whether a and other are the same logical article. An
// address without a parseable host never matches.
func (a *Article) SameAs(other *Article) bool {
	if a == nil || other == nil {
		return false
	}
	if a.Title != other.Title {
		return false
	}
	return sameHost(a.Address, other.Address)
}

func (a *Article) identity() identity {
	return identity{title: a.Title, host: a.host}
}

type identity struct {
	title string
	host  string
}

func sameHost(x, y string) bool {
	ux, err := url.Parse(x)
	if err != nil {
		return false
	}
	uy, err := url.Parse(y)
	if err != nil {
		return false
	}
	hx, hy := ux.Hostname(), uy.Hostname()
	if hx == "" || hy == "" {
		return false
	}
	return hx == hy
}
