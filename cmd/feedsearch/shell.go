package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher"
)

const (
	titleWidth       = 76
	descriptionWidth = 240
)

type searchEngine interface {
	Search(ctx context.Context, query string) ([]searcher.Result, error)
	ArticleCount() int
}

// shell reads one query per line until a blank line or end of input.
type shell struct {
	engine       searchEngine
	in           io.Reader
	out          io.Writer
	displayLimit int
}

func (s *shell) run(ctx context.Context) error {
	if s.displayLimit <= 0 {
		s.displayLimit = 10
	}
	fmt.Fprintf(s.out, "Article database complete. Currently indexing %s.\n",
		plural(s.engine.ArticleCount(), "article"))

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "Please enter single search term (or blank to exit): ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		if err := s.query(ctx, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}
	fmt.Fprintln(s.out, "Thank you for using the feed searcher!")
	return nil
}

func (s *shell) query(ctx context.Context, line string) error {
	fmt.Fprintf(s.out, "Actual query: %s\n", tokenizer.NormalizeQuery(line))
	results, err := s.engine.Search(ctx, line)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Search returned %s\n", plural(len(results), "result"))
	if len(results) > s.displayLimit {
		fmt.Fprintf(s.out, "Only the first %d results will be displayed\n", s.displayLimit)
		results = results[:s.displayLimit]
	}
	for i, r := range results {
		fmt.Fprintf(s.out, "%d %s, %s\n%s\n%s\n\n",
			i+1,
			runewidth.Truncate(r.Title, titleWidth, "…"),
			plural(r.Occurrences, "hit"),
			runewidth.Truncate(r.Description, descriptionWidth, "…"),
			r.Address,
		)
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
