package news

import (
	"context"
	"sync"
)

// DedupIndex is the shared set of article links already delivered.
// Once a link is recorded it is never delivered again to any subscriber
// sharing the index. Reserve is the atomic check-then-insert: exactly one
// of several concurrent callers wins a given link.
type DedupIndex interface {
	// Contains reports whether the link has already been recorded.
	Contains(ctx context.Context, link string) (bool, error)

	// Reserve atomically records the link, returning true if this caller
	// inserted it and false if it was already present.
	Reserve(ctx context.Context, link string) (bool, error)

	// Release removes a reserved link so a failed delivery can be retried
	// on a later pass.
	Release(ctx context.Context, link string) error
}

// MemoryIndex is the in-process DedupIndex implementation.
type MemoryIndex struct {
	mu    sync.Mutex
	links map[string]struct{}
}

// NewMemoryIndex creates an empty in-memory dedup index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{links: make(map[string]struct{})}
}

// Contains reports whether the link has been recorded.
func (m *MemoryIndex) Contains(ctx context.Context, link string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.links[link]
	return ok, nil
}

// Reserve records the link if absent.
func (m *MemoryIndex) Reserve(ctx context.Context, link string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[link]; ok {
		return false, nil
	}
	m.links[link] = struct{}{}
	return true, nil
}

// Release removes a link from the index.
func (m *MemoryIndex) Release(ctx context.Context, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, link)
	return nil
}

// FilterNew filters candidates down to genuinely new articles, in
// first-seen order: a candidate is admitted iff its link is not in the
// index and its normalized title has not already been admitted in this
// pass. Output is capped at limit (earliest first); limit <= 0 means no
// cap. Titles are deduplicated per pass only; links persist in the index.
func FilterNew(ctx context.Context, idx DedupIndex, candidates []Article, limit int) ([]Article, error) {
	seenLinks := make(map[string]struct{}, len(candidates))
	seenTitles := make(map[string]struct{}, len(candidates))
	out := make([]Article, 0, len(candidates))

	for _, c := range candidates {
		if c.Link == "" {
			continue
		}
		if _, ok := seenLinks[c.Link]; ok {
			continue
		}
		if _, ok := seenTitles[c.NormalizedTitle()]; ok {
			continue
		}
		sent, err := idx.Contains(ctx, c.Link)
		if err != nil {
			return nil, err
		}
		if sent {
			continue
		}
		seenLinks[c.Link] = struct{}{}
		seenTitles[c.NormalizedTitle()] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out, nil
}
