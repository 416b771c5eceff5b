package article

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
)

func mustNew(t *testing.T, title, address, content string) *Article {
	t.Helper()
	a, err := New(Fields{Title: title, Address: address}, content)
	require.NoError(t, err)
	return a
}

func TestNewBuildsFrequencies(t *testing.T) {
	a, err := New(Fields{
		Title:         "Cats",
		Description:   "about cats",
		Address:       "http://x.com/a",
		PublishedDate: "Mon, 02 Jan 2006 15:04:05 GMT",
	}, "The cat sat. The CAT ran!")
	require.NoError(t, err)

	assert.Equal(t, 2, a.Occurrences("the"))
	assert.Equal(t, 2, a.Occurrences("Cat"))
	assert.Equal(t, 1, a.Occurrences("sat"))
	assert.Equal(t, 1, a.Occurrences("ran"))
	assert.Equal(t, 0, a.Occurrences("dog"))
	assert.Equal(t, 4, a.DistinctTerms())
	assert.Equal(t, 6, a.TokenCount())
	assert.Equal(t, "x.com", a.Host())
	assert.Equal(t, "about cats", a.Description)
}

func TestNewRejectsBadAddress(t *testing.T) {
	for _, addr := range []string{"", "not a url", "ftp://x.com/a", "http://", "/relative", "http://[::1"} {
		t.Run(fmt.Sprintf("%q", addr), func(t *testing.T) {
			a, err := New(Fields{Title: "t", Address: addr}, "content")
			assert.Nil(t, a)
			assert.True(t, errors.Is(err, apperrors.ErrArticleAddress))
		})
	}
}

func TestSameAs(t *testing.T) {
	base := mustNew(t, "Same", "http://x.com/a", "")
	tests := []struct {
		name  string
		other *Article
		want  bool
	}{
		{"same title same host", mustNew(t, "Same", "http://x.com/b", ""), true},
		{"same host different port", mustNew(t, "Same", "http://x.com:8080/c", ""), true},
		{"different title", mustNew(t, "Other", "http://x.com/a", ""), false},
		{"different host", mustNew(t, "Same", "http://y.com/a", ""), false},
		{"title case matters", mustNew(t, "same", "http://x.com/a", ""), false},
		{"malformed address", &Article{Title: "Same", Address: "http://[::1"}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameAs(tt.other))
			if tt.other != nil {
				assert.Equal(t, tt.want, tt.other.SameAs(base))
			}
		})
	}
}

func TestRepositoryInsertIfAbsent(t *testing.T) {
	repo := NewRepository()
	first := mustNew(t, "Same", "http://x.com/a", "one")
	dup := mustNew(t, "Same", "http://x.com/b", "two two")
	other := mustNew(t, "Different", "http://x.com/a", "three")

	assert.True(t, repo.InsertIfAbsent(first))
	assert.False(t, repo.InsertIfAbsent(dup))
	assert.True(t, repo.InsertIfAbsent(other))
	assert.False(t, repo.InsertIfAbsent(nil))

	snap := repo.Snapshot()
	require.Len(t, snap, 2)
	assert.Same(t, first, snap[0])
	assert.Same(t, other, snap[1])
	assert.Equal(t, 0, snap[0].Occurrences("two"))
	assert.Equal(t, 2, repo.Size())
}

func TestRepositorySnapshotIsCopy(t *testing.T) {
	repo := NewRepository()
	repo.InsertIfAbsent(mustNew(t, "A", "http://x.com/a", ""))
	snap := repo.Snapshot()
	repo.InsertIfAbsent(mustNew(t, "B", "http://x.com/b", ""))
	assert.Len(t, snap, 1)
	assert.Equal(t, 2, repo.Size())
}

func TestRepositoryConcurrentInsert(t *testing.T) {
	repo := NewRepository()
	const writers = 64
	const titles = 8

	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := New(Fields{
				Title:   fmt.Sprintf("title-%d", i%titles),
				Address: fmt.Sprintf("http://x.com/%d", i),
			}, "body")
			if err != nil {
				t.Error(err)
				return
			}
			if repo.InsertIfAbsent(a) {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, titles, added)
	assert.Equal(t, titles, repo.Size())
	snap := repo.Snapshot()
	for i := range snap {
		for j := i + 1; j < len(snap); j++ {
			assert.False(t, snap[i].SameAs(snap[j]))
		}
	}
}
