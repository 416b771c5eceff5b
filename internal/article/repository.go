package article

import "sync"

// Repository is an insertion-ordered set of unique articles. It is safe for
// concurrent use; every mutation goes through InsertIfAbsent.
type Repository struct {
	mu       sync.Mutex
	articles []*Article
	index    map[identity]int
}

func NewRepository() *Repository {
	return &Repository{
		index: make(map[identity]int),
	}
}

// InsertIfAbsent appends a unless an article with the same identity is
// already present. It reports whether a was added. The first insert wins and
// its counts are kept unchanged.
func (r *Repository) InsertIfAbsent(a *Article) bool {
	if a == nil {
		return false
	}
	id := a.identity()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[id]; exists {
		return false
	}
	r.index[id] = len(r.articles)
	r.articles = append(r.articles, a)
	return true
}

// Snapshot returns a copy of the articles in insertion order.
func (r *Repository) Snapshot() []*Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Article, len(r.articles))
	copy(out, r.articles)
	return out
}

func (r *Repository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.articles)
}
