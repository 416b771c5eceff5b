package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

// XMLParser reads the element tree of a feed with xmlquery. RSS documents
// yield every item under the first channel element. Documents without a
// channel are read as Atom and yield their entry elements.
type XMLParser struct {
	loader Loader
	logger *slog.Logger
}

func NewXMLParser(loader Loader) *XMLParser {
	return &XMLParser{
		loader: loader,
		logger: slog.Default().With("component", "xml-feed-parser"),
	}
}

func (p *XMLParser) Parse(ctx context.Context, address string) ([]Entry, error) {
	data, err := load(ctx, p.loader, address)
	if err != nil {
		return nil, err
	}
	return p.parseBytes(address, data)
}

// parseBytes parses an already fetched document. address is only used in
// error messages.
func (p *XMLParser) parseBytes(address string, data []byte) ([]Entry, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFeedParse, address, err)
	}
	if channel := xmlquery.FindOne(doc, descendants("channel")); channel != nil {
		items := xmlquery.Find(channel, descendants("item"))
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			entries = append(entries, xmlEntry{node: item})
		}
		return entries, nil
	}
	if root := xmlquery.FindOne(doc, "/*[name()='feed']"); root != nil {
		items := xmlquery.Find(root, descendants("entry"))
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			entries = append(entries, atomEntry{xmlEntry{node: item}})
		}
		p.logger.Debug("atom feed detected", "feed", address, "entries", len(entries))
		return entries, nil
	}
	return nil, fmt.Errorf("%w: %s: no channel element", apperrors.ErrFeedParse, address)
}

type xmlEntry struct {
	node *xmlquery.Node
}

func (e xmlEntry) FirstText(tag string) (string, bool) {
	el := firstElement(e.node, tag)
	if el == nil || el.FirstChild == nil {
		return "", false
	}
	switch el.FirstChild.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return el.FirstChild.Data, true
	default:
		return "", false
	}
}

// atomEntry maps RSS field names onto their Atom equivalents.
type atomEntry struct {
	xmlEntry
}

func (e atomEntry) FirstText(tag string) (string, bool) {
	switch tag {
	case TagLink:
		for _, link := range xmlquery.Find(e.node, descendants("link")) {
			rel := link.SelectAttr("rel")
			if href := link.SelectAttr("href"); href != "" && (rel == "" || rel == "alternate") {
				return href, true
			}
		}
		return e.xmlEntry.FirstText(tag)
	case TagDescription:
		if v, ok := e.xmlEntry.FirstText("summary"); ok {
			return v, true
		}
		return e.xmlEntry.FirstText("content")
	case TagPubDate:
		if v, ok := e.xmlEntry.FirstText("published"); ok {
			return v, true
		}
		return e.xmlEntry.FirstText("updated")
	default:
		return e.xmlEntry.FirstText(tag)
	}
}

// descendants selects the elements below the context node named tag, in
// document order. name() includes the prefix, so atom:link does not match
// "link".
func descendants(tag string) string {
	return ".//*[name()='" + tag + "']"
}

// firstElement returns nil for tags that cannot be written as an XPath
// string literal.
func firstElement(n *xmlquery.Node, tag string) *xmlquery.Node {
	if tag == "" || strings.ContainsAny(tag, `'"[]/`) {
		return nil
	}
	return xmlquery.FindOne(n, descendants(tag))
}
