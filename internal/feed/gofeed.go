package feed

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

// GofeedParser parses RSS, Atom and JSON feeds with gofeed.
type GofeedParser struct {
	loader Loader
}

func NewGofeedParser(loader Loader) *GofeedParser {
	return &GofeedParser{loader: loader}
}

func (p *GofeedParser) Parse(ctx context.Context, address string) ([]Entry, error) {
	data, err := load(ctx, p.loader, address)
	if err != nil {
		return nil, err
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFeedParse, address, err)
	}
	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, gofeedEntry{item: item})
	}
	return entries, nil
}

type gofeedEntry struct {
	item *gofeed.Item
}

func (e gofeedEntry) FirstText(tag string) (string, bool) {
	var v string
	switch tag {
	case TagTitle:
		v = e.item.Title
	case TagDescription:
		v = e.item.Description
	case TagLink:
		v = e.item.Link
	case TagPubDate:
		v = e.item.Published
		if v == "" {
			v = e.item.Updated
		}
	default:
		if ext, ok := e.item.Custom[tag]; ok {
			v = ext
		}
	}
	return v, v != ""
}
