package metadata_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/linkbox/internal/metadata"
	"github.com/nikbrunner/linkbox/internal/model"
)

func TestRefresh(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "bm_1", URL: "https://a.com", Title: "a.com"},
		{ID: "bm_2", URL: "https://b.com", Title: "My own title", Description: "same"},
		{ID: "bm_3", URL: "https://gone.com", Title: "Gone"},
	}
	f := fakeFetcher{results: map[string]metadata.Metadata{
		"https://a.com": {URL: "https://a.com", Title: "Site A", Favicon: "https://a.com/icon.png"},
		"https://b.com": {URL: "https://b.com", Title: "Site B", Description: "same"},
	}}

	var mu sync.Mutex
	var progress []int
	results := metadata.Refresh(context.Background(), f, bookmarks, 2, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Check(t, is.Equal(total, 3))
		progress = append(progress, completed)
	})

	assert.Assert(t, is.Len(results, 3))
	assert.DeepEqual(t, progress, []int{1, 2, 3})

	// hostname titles are replaced
	assert.Equal(t, results[0].Bookmark.ID, "bm_1")
	assert.Check(t, results[0].Changed())
	assert.DeepEqual(t, results[0].Update, model.BookmarkUpdate{
		Title:   model.Ptr("Site A"),
		Favicon: model.Ptr("https://a.com/icon.png"),
	})

	// custom titles and unchanged fields are left alone
	assert.Equal(t, results[1].Bookmark.ID, "bm_2")
	assert.Check(t, !results[1].Changed())
	assert.Check(t, results[1].Update.IsEmpty())

	assert.Equal(t, results[2].Bookmark.ID, "bm_3")
	assert.Check(t, errors.Is(results[2].Err, metadata.ErrMetadataUnavailable))
	assert.Check(t, !results[2].Changed())
}

func TestRefresh_Empty(t *testing.T) {
	assert.Check(t, is.Nil(metadata.Refresh(context.Background(), fakeFetcher{}, nil, 4, nil)))
}

func TestRefresh_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := metadata.Refresh(ctx, fakeFetcher{}, []model.Bookmark{{ID: "bm_1", URL: "https://a.com"}}, 0, nil)

	assert.Assert(t, is.Len(results, 1))
	assert.Check(t, errors.Is(results[0].Err, context.Canceled))
}
