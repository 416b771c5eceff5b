// Package ranker orders articles by how often they mention a term.
package ranker

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/article"
)

// Result is one ranked match.
type Result struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	PublishedDate string `json:"published_date"`
	Occurrences   int    `json:"occurrences"`
}

// Rank returns the articles of snapshot that contain term, by descending
// occurrence count. Articles with equal counts keep their snapshot order.
// term must already be normalized; an empty term matches nothing.
func Rank(snapshot []*article.Article, term string) []Result {
	results := []Result{}
	if term == "" {
		return results
	}
	for _, a := range snapshot {
		n := a.Occurrences(term)
		if n <= 0 {
			continue
		}
		results = append(results, Result{
			Title:         a.Title,
			Description:   a.Description,
			Address:       a.Address,
			PublishedDate: a.PublishedDate,
			Occurrences:   n,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Occurrences > results[j].Occurrences
	})
	return results
}
