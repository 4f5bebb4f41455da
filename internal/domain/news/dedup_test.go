package news

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_ReserveOnce(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	ok, err := idx.Reserve(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = idx.Reserve(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok, "second reserve of the same link must lose")

	sent, err := idx.Contains(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestMemoryIndex_ReleaseAllowsRetry(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	ok, err := idx.Reserve(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, idx.Release(ctx, "https://example.com/a"))

	ok, err = idx.Reserve(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok, "released link must be reservable again")
}

func TestMemoryIndex_ConcurrentReserveSingleWinner(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := idx.Reserve(ctx, "https://example.com/contested")
			assert.NoError(t, err)
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for ok := range wins {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent reserver must win")
}

func TestFilterNew_DropsSentAndDuplicates(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	_, err := idx.Reserve(ctx, "https://example.com/sent")
	require.NoError(t, err)

	candidates := []Article{
		{Title: "Bitcoin rallies", Link: "https://example.com/1"},
		{Title: "Bitcoin rallies", Link: "https://example.com/2"},   // duplicate title
		{Title: "ETH upgrade ships", Link: "https://example.com/1"}, // duplicate link
		{Title: "Already delivered", Link: "https://example.com/sent"},
		{Title: "No link article", Link: ""},
		{Title: "Regulation roundup", Link: "https://example.com/3"},
	}

	fresh, err := FilterNew(ctx, idx, candidates, 0)
	require.NoError(t, err)

	require.Len(t, fresh, 2)
	assert.Equal(t, "https://example.com/1", fresh[0].Link)
	assert.Equal(t, "https://example.com/3", fresh[1].Link)
}

func TestFilterNew_TitleIdentityIsNormalized(t *testing.T) {
	idx := NewMemoryIndex()

	candidates := []Article{
		{Title: "Bitcoin  Hits   New High", Link: "https://example.com/1"},
		{Title: "bitcoin hits new high", Link: "https://example.com/2"},
	}

	fresh, err := FilterNew(context.Background(), idx, candidates, 0)
	require.NoError(t, err)

	require.Len(t, fresh, 1, "case and whitespace variants are the same title")
	assert.Equal(t, "https://example.com/1", fresh[0].Link, "first occurrence wins")
}

func TestFilterNew_CapKeepsEarliest(t *testing.T) {
	idx := NewMemoryIndex()

	var candidates []Article
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Article{
			Title: fmt.Sprintf("Article %d", i),
			Link:  fmt.Sprintf("https://example.com/%d", i),
		})
	}

	fresh, err := FilterNew(context.Background(), idx, candidates, 10)
	require.NoError(t, err)

	require.Len(t, fresh, 10)
	for i, a := range fresh {
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), a.Link)
	}
}

func TestFilterNew_TitlesResetBetweenPasses(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	first, err := FilterNew(ctx, idx, []Article{
		{Title: "Same headline", Link: "https://example.com/1"},
	}, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The title was only deduplicated within the pass; a different link
	// with the same title is admitted next time.
	second, err := FilterNew(ctx, idx, []Article{
		{Title: "Same headline", Link: "https://example.com/2"},
	}, 0)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
