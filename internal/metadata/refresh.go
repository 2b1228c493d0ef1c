package metadata

import (
	"context"
	"net/url"
	"sync"

	"github.com/nikbrunner/linkbox/internal/model"
)

// RefreshResult holds the outcome of re-fetching one bookmark's preview.
type RefreshResult struct {
	Bookmark model.Bookmark
	Update   model.BookmarkUpdate // fields that differ from Bookmark
	Err      error
}

// Changed reports whether the fetch succeeded and produced new values.
func (r RefreshResult) Changed() bool {
	return r.Err == nil && !r.Update.IsEmpty()
}

// ProgressFunc is called after each bookmark is refreshed.
// completed is the number of bookmarks done so far, total is the total count.
type ProgressFunc func(completed, total int)

// Refresh re-fetches previews for all bookmarks concurrently and returns one
// result per bookmark, in input order. Results are not applied; callers pass
// each changed Update to the store themselves.
func Refresh(ctx context.Context, f Fetcher, bookmarks []model.Bookmark, concurrency int, onProgress ProgressFunc) []RefreshResult {
	if len(bookmarks) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]RefreshResult, len(bookmarks))
	jobs := make(chan int, len(bookmarks))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = refreshOne(ctx, f, bookmarks[idx])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range bookmarks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func refreshOne(ctx context.Context, f Fetcher, b model.Bookmark) RefreshResult {
	result := RefreshResult{Bookmark: b}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	meta, err := f.Fetch(ctx, b.URL)
	if err != nil {
		result.Err = err
		return result
	}

	result.Update = diff(b, meta)
	return result
}

// diff builds the update that brings b in line with meta. The title is only
// replaced while it is still empty or the bare hostname.
func diff(b model.Bookmark, meta Metadata) model.BookmarkUpdate {
	var upd model.BookmarkUpdate

	if meta.Title != "" && meta.Title != b.Title && isPlaceholderTitle(b) {
		upd.Title = model.Ptr(meta.Title)
	}
	if meta.Description != "" && meta.Description != b.Description {
		upd.Description = model.Ptr(meta.Description)
	}
	if meta.Favicon != "" && meta.Favicon != b.Favicon {
		upd.Favicon = model.Ptr(meta.Favicon)
	}
	if meta.Image != "" && meta.Image != b.Thumbnail {
		upd.Thumbnail = model.Ptr(meta.Image)
	}
	if meta.Screenshot != "" && meta.Screenshot != b.Screenshot {
		upd.Screenshot = model.Ptr(meta.Screenshot)
	}
	return upd
}

func isPlaceholderTitle(b model.Bookmark) bool {
	if b.Title == "" {
		return true
	}
	u, err := url.Parse(b.URL)
	return err == nil && b.Title == u.Hostname()
}
