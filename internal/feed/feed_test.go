package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

type stubLoader struct {
	docs map[string]string
}

func (s stubLoader) Get(_ context.Context, address string) ([]byte, error) {
	doc, ok := s.docs[address]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(doc), nil
}

const rssDoc = `<?xml version="1.0"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Example</title>
    <atom:link href="http://x.com/rss" rel="self"/>
    <item>
      <title>First</title>
      <description><![CDATA[<b>one</b>]]></description>
      <link>http://x.com/a</link>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second</title>
      <link>http://x.com/b</link>
    </item>
    <item>
      <description>no title or link</description>
    </item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Example</title>
  <entry>
    <title>Atom One</title>
    <link rel="alternate" href="http://y.com/one"/>
    <summary>short</summary>
    <updated>2006-01-02T15:04:05Z</updated>
  </entry>
</feed>`

func parsers(loader Loader) map[string]Parser {
	return map[string]Parser{
		"xml":    NewXMLParser(loader),
		"gofeed": NewGofeedParser(loader),
	}
}

func TestParseRSS(t *testing.T) {
	loader := stubLoader{docs: map[string]string{"http://x.com/rss": rssDoc}}
	for name, p := range parsers(loader) {
		t.Run(name, func(t *testing.T) {
			entries, err := p.Parse(context.Background(), "http://x.com/rss")
			require.NoError(t, err)
			require.Len(t, entries, 3)

			title, ok := entries[0].FirstText(TagTitle)
			assert.True(t, ok)
			assert.Equal(t, "First", title)
			link, _ := entries[0].FirstText(TagLink)
			assert.Equal(t, "http://x.com/a", link)
			desc, _ := entries[0].FirstText(TagDescription)
			assert.Equal(t, "<b>one</b>", desc)
			_, ok = entries[0].FirstText(TagPubDate)
			assert.True(t, ok)

			_, ok = entries[1].FirstText(TagDescription)
			assert.False(t, ok)
			_, ok = entries[2].FirstText(TagTitle)
			assert.False(t, ok)
			_, ok = entries[2].FirstText(TagLink)
			assert.False(t, ok)
		})
	}
}

func TestParseAtom(t *testing.T) {
	loader := stubLoader{docs: map[string]string{"http://y.com/atom": atomDoc}}
	for name, p := range parsers(loader) {
		t.Run(name, func(t *testing.T) {
			entries, err := p.Parse(context.Background(), "http://y.com/atom")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			link, ok := entries[0].FirstText(TagLink)
			assert.True(t, ok)
			assert.Equal(t, "http://y.com/one", link)
			desc, _ := entries[0].FirstText(TagDescription)
			assert.Equal(t, "short", desc)
		})
	}
}

func TestParseEmptyChannel(t *testing.T) {
	loader := stubLoader{docs: map[string]string{"http://x.com/empty": `<rss><channel><title>t</title></channel></rss>`}}
	entries, err := NewXMLParser(loader).Parse(context.Background(), "http://x.com/empty")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestXMLParserIgnoresPrefixedElements(t *testing.T) {
	doc := `<rss xmlns:atom="http://www.w3.org/2005/Atom" xmlns:dc="http://purl.org/dc/elements/1.1/"><channel>
<atom:link href="http://x.com/self" rel="self"/>
<item><atom:link href="http://x.com/wrong"/><dc:title>prefixed</dc:title><link>http://x.com/right</link></item>
<item><dc:item>nested</dc:item><title>second</title></item>
</channel></rss>`
	loader := stubLoader{docs: map[string]string{"http://x.com/ns": doc}}
	entries, err := NewXMLParser(loader).Parse(context.Background(), "http://x.com/ns")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	link, ok := entries[0].FirstText(TagLink)
	assert.True(t, ok)
	assert.Equal(t, "http://x.com/right", link)
	_, ok = entries[0].FirstText(TagTitle)
	assert.False(t, ok)

	title, _ := entries[1].FirstText(TagTitle)
	assert.Equal(t, "second", title)
	_, ok = entries[1].FirstText("title']|//*[name()='link")
	assert.False(t, ok)
}

func TestParseFailures(t *testing.T) {
	loader := stubLoader{docs: map[string]string{
		"http://x.com/html": `<html><body>not a feed</body></html>`,
	}}
	p := NewXMLParser(loader)

	_, err := p.Parse(context.Background(), "http://down.example/rss")
	assert.True(t, errors.Is(err, apperrors.ErrFeedFetch))

	_, err = p.Parse(context.Background(), "http://x.com/html")
	assert.True(t, errors.Is(err, apperrors.ErrFeedParse))
}

func TestNewParser(t *testing.T) {
	loader := stubLoader{}
	p, err := NewParser("", loader)
	require.NoError(t, err)
	assert.IsType(t, &XMLParser{}, p)

	p, err = NewParser("gofeed", loader)
	require.NoError(t, err)
	assert.IsType(t, &GofeedParser{}, p)

	_, err = NewParser("yaml", loader)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
