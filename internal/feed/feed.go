// Package feed turns a syndication document into an ordered list of entries.
// Two parsers are provided: XMLParser walks the raw element tree (RSS items,
// with Atom entries as a fallback) and GofeedParser delegates to gofeed's
// universal parser.
package feed

import (
	"context"
	"fmt"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

// Field names looked up on every entry.
const (
	TagTitle       = "title"
	TagDescription = "description"
	TagLink        = "link"
	TagPubDate     = "pubDate"
)

// Entry is one item of a feed document.
type Entry interface {
	// FirstText returns the text of the first child node of the first
	// element named tag, or false when there is none.
	FirstText(tag string) (string, bool)
}

// Parser fetches and parses the feed at address. Entries are returned in
// document order.
type Parser interface {
	Parse(ctx context.Context, address string) ([]Entry, error)
}

// Loader returns the raw bytes of a document.
type Loader interface {
	Get(ctx context.Context, address string) ([]byte, error)
}

// NewParser returns the parser registered under kind.
func NewParser(kind string, loader Loader) (Parser, error) {
	switch kind {
	case "", "xml":
		return NewXMLParser(loader), nil
	case "gofeed":
		return NewGofeedParser(loader), nil
	default:
		return nil, fmt.Errorf("%w: unknown parser kind %q", apperrors.ErrInvalidInput, kind)
	}
}

func load(ctx context.Context, loader Loader, address string) ([]byte, error) {
	data, err := loader.Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFeedFetch, address, err)
	}
	return data, nil
}
