package storage_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/storage"
)

// stepClock returns times one minute apart, starting at a fixed date.
func stepClock() func() time.Time {
	next := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func newTestRepo(t *testing.T) (*storage.Repository, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	return storage.NewRepository(backend, logger.NewNop(), storage.WithClock(stepClock())), backend
}

func ids[T interface{ model.Category | model.Bookmark }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := any(item).(type) {
		case model.Category:
			out = append(out, v.ID)
		case model.Bookmark:
			out = append(out, v.ID)
		}
	}
	return out
}

// failingBackend fails reads or writes on demand.
type failingBackend struct {
	*storage.MemoryBackend
	failReads  bool
	failWrites bool
}

func (f *failingBackend) Get(key string) (string, bool, error) {
	if f.failReads {
		return "", false, errors.New("backend unavailable")
	}
	return f.MemoryBackend.Get(key)
}

func (f *failingBackend) Set(key, value string) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.MemoryBackend.Set(key, value)
}

// === Categories ===

func TestRepository_Categories_SeedsDefaults(t *testing.T) {
	repo, backend := newTestRepo(t)

	got := repo.Categories()
	assert.DeepEqual(t, got, []model.Category{
		{ID: "dev", Name: "개발", Order: 0},
		{ID: "study", Name: "공부", Order: 1},
	})

	raw, ok, _ := backend.Get(storage.KeyCategories)
	assert.Assert(t, ok, "defaults were not persisted")
	assert.Check(t, is.Contains(raw, `"name":"개발"`))
}

func TestRepository_EnsureInitialized(t *testing.T) {
	repo, backend := newTestRepo(t)

	repo.EnsureInitialized()

	cats, ok, _ := backend.Get(storage.KeyCategories)
	assert.Assert(t, ok)
	assert.Check(t, is.Contains(cats, `"id":"study"`))

	bms, ok, _ := backend.Get(storage.KeyBookmarks)
	assert.Assert(t, ok)
	assert.Equal(t, bms, "[]")
}

func TestRepository_EnsureInitialized_KeepsExistingData(t *testing.T) {
	repo, backend := newTestRepo(t)
	assert.NilError(t, backend.Set(storage.KeyCategories, `[]`))

	repo.EnsureInitialized()

	assert.Equal(t, len(repo.Categories()), 0, "an empty stored list must not be reseeded")
}

func TestRepository_Categories_CorruptDataIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	backend := storage.NewMemoryBackend()
	repo := storage.NewRepository(backend, logger.Wrap(zap.New(core)))
	assert.NilError(t, backend.Set(storage.KeyCategories, `{"broken":`))

	got := repo.Categories()

	assert.Equal(t, len(got), 0)
	assert.Equal(t, logs.FilterMessage("failed to parse collection").Len(), 1)

	raw, _, _ := backend.Get(storage.KeyCategories)
	assert.Equal(t, raw, `{"broken":`, "corrupt data must not be reseeded")
}

func TestRepository_AddCategory_OrdersAreDenseInCallOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.EnsureInitialized()

	var added []model.Category
	for _, name := range []string{"Reading", "Tools", "Music", "Recipes"} {
		added = append(added, repo.AddCategory(model.NewCategoryParams{Name: name, Icon: "📁"}))
	}

	all := repo.Categories()
	assert.Equal(t, len(all), 6)
	for i, c := range all {
		assert.Equal(t, c.Order, i)
	}
	assert.Equal(t, added[0].Order, 2)
	assert.Equal(t, added[3].Order, 5)
	assert.Assert(t, is.Contains(added[0].ID, "cat_"))
	assert.Equal(t, all[2].Icon, "📁")
}

func TestRepository_UpdateCategory_MergesOnlySetFields(t *testing.T) {
	repo, _ := newTestRepo(t)
	c := repo.AddCategory(model.NewCategoryParams{Name: "Reading", Icon: "📚", Color: "blue"})

	repo.UpdateCategory(c.ID, model.CategoryUpdate{Name: model.Ptr("Books")})

	got := repo.Categories()[2]
	assert.DeepEqual(t, got, model.Category{ID: c.ID, Name: "Books", Icon: "📚", Color: "blue", Order: 2})
}

func TestRepository_UpdateCategory_UnknownAndVirtualIDsAreNoops(t *testing.T) {
	repo, _ := newTestRepo(t)
	before := repo.Categories()

	repo.UpdateCategory("missing", model.CategoryUpdate{Name: model.Ptr("X")})
	repo.UpdateCategory(model.CategoryAll, model.CategoryUpdate{Name: model.Ptr("X")})

	assert.DeepEqual(t, repo.Categories(), before)
}

func TestRepository_DeleteCategory_RedensifiesOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.AddCategory(model.NewCategoryParams{Name: "Reading"})
	repo.AddCategory(model.NewCategoryParams{Name: "Tools"})

	repo.DeleteCategory("dev")

	got := repo.Categories()
	assert.Equal(t, len(got), 3)
	assert.Equal(t, got[0].ID, "study")
	for i, c := range got {
		assert.Equal(t, c.Order, i)
	}
}

func TestRepository_DeleteCategory_ReassignsOnlyItsBookmarks(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.EnsureInitialized()
	a := repo.AddBookmark(model.NewBookmarkParams{URL: "https://go.dev", Title: "Go", CategoryID: "dev"})
	b := repo.AddBookmark(model.NewBookmarkParams{URL: "https://rust-lang.org", Title: "Rust", CategoryID: "dev"})
	c := repo.AddBookmark(model.NewBookmarkParams{URL: "https://coursera.org", Title: "Coursera", CategoryID: "study"})
	d := repo.AddBookmark(model.NewBookmarkParams{URL: "https://x.com", Title: "X"})

	repo.DeleteCategory("dev")

	byID := make(map[string]model.Bookmark)
	for _, bm := range repo.Bookmarks() {
		byID[bm.ID] = bm
	}
	assert.Equal(t, byID[a.ID].CategoryID, model.Uncategorized)
	assert.Equal(t, byID[b.ID].CategoryID, model.Uncategorized)
	assert.Equal(t, byID[c.ID].CategoryID, "study")
	assert.Equal(t, byID[d.ID].CategoryID, model.Uncategorized)
}

func TestRepository_DeleteCategory_OrphansShowUpUncategorizedByOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	first := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A", CategoryID: "study"})
	second := repo.AddBookmark(model.NewBookmarkParams{URL: "https://b.com", Title: "B", CategoryID: "study"})

	repo.DeleteCategory("study")

	got := repo.BookmarksByCategory(model.Uncategorized)
	assert.DeepEqual(t, ids(got), []string{first.ID, second.ID})
	assert.Equal(t, got[0].Order, 0)
	assert.Equal(t, got[1].Order, 1)
}

func TestRepository_DeleteCategory_VirtualIDsIgnored(t *testing.T) {
	repo, _ := newTestRepo(t)
	bm := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A", CategoryID: "dev"})

	repo.DeleteCategory(model.CategoryFavorites)

	assert.Equal(t, len(repo.Categories()), 2)
	assert.Equal(t, repo.Bookmarks()[0].CategoryID, bm.CategoryID)
}

func TestRepository_SearchCategories(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.AddCategory(model.NewCategoryParams{Name: "DevOps"})
	repo.AddCategory(model.NewCategoryParams{Name: "Cooking"})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "empty returns all", query: "", want: 4},
		{name: "whitespace returns all", query: "   ", want: 4},
		{name: "case-insensitive", query: "devops", want: 1},
		{name: "hangul", query: "공부", want: 1},
		{name: "no match", query: "zzz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, len(repo.SearchCategories(tt.query)), tt.want)
		})
	}

	assert.DeepEqual(t, repo.SearchCategories(""), repo.Categories())
}

// === Bookmarks ===

func TestRepository_Bookmarks_SeedsEmpty(t *testing.T) {
	repo, backend := newTestRepo(t)

	assert.Equal(t, len(repo.Bookmarks()), 0)
	raw, ok, _ := backend.Get(storage.KeyBookmarks)
	assert.Assert(t, ok)
	assert.Equal(t, raw, "[]")
}

func TestRepository_Bookmarks_ReadFailureIsEmpty(t *testing.T) {
	backend := &failingBackend{MemoryBackend: storage.NewMemoryBackend()}
	repo := storage.NewRepository(backend, logger.NewNop())
	repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A"})

	backend.failReads = true

	assert.Equal(t, len(repo.Bookmarks()), 0)
	assert.Equal(t, len(repo.BookmarksByCategory(model.CategoryAll)), 0)
}

func TestRepository_WriteFailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	backend := &failingBackend{MemoryBackend: storage.NewMemoryBackend()}
	repo := storage.NewRepository(backend, logger.Wrap(zap.New(core)))
	repo.EnsureInitialized()

	backend.failWrites = true
	added := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A"})

	assert.Assert(t, added.ID != "", "the record is still returned")
	assert.Equal(t, len(repo.Bookmarks()), 0, "the write was dropped")
	assert.Equal(t, logs.FilterMessage("failed to save collection").Len(), 1)
}

func TestRepository_AddBookmark_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	params := model.NewBookmarkParams{
		URL:         "https://dev.to",
		Title:       "dev.to",
		Description: "Community of developers",
		Favicon:     "https://dev.to/favicon.ico",
		Thumbnail:   "https://dev.to/og.png",
		Screenshot:  "https://shots.example/dev.to.png",
		CategoryID:  "dev",
		Tags:        []string{"blog", "blog"},
	}

	added := repo.AddBookmark(params)

	got := repo.Bookmarks()
	assert.Equal(t, len(got), 1)
	want := model.NewBookmark(params, added.ID, 0, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	assert.DeepEqual(t, got[0], want)
	assert.Assert(t, is.Contains(added.ID, "bm_"))
}

func TestRepository_AddBookmark_OrderCountsSameCategory(t *testing.T) {
	repo, _ := newTestRepo(t)

	first := repo.AddBookmark(model.NewBookmarkParams{URL: "https://1.com", Title: "1", CategoryID: "dev"})
	other := repo.AddBookmark(model.NewBookmarkParams{URL: "https://2.com", Title: "2", CategoryID: "study"})
	second := repo.AddBookmark(model.NewBookmarkParams{URL: "https://3.com", Title: "3", CategoryID: "dev"})
	third := repo.AddBookmark(model.NewBookmarkParams{URL: "https://4.com", Title: "4", CategoryID: "dev"})

	assert.Equal(t, first.Order, 0)
	assert.Equal(t, second.Order, 1)
	assert.Equal(t, third.Order, 2)
	assert.Equal(t, other.Order, 0)
}

func TestRepository_DeleteBookmark_LeavesOrderGaps(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A", CategoryID: "dev"})
	b := repo.AddBookmark(model.NewBookmarkParams{URL: "https://b.com", Title: "B", CategoryID: "dev"})
	c := repo.AddBookmark(model.NewBookmarkParams{URL: "https://c.com", Title: "C", CategoryID: "dev"})

	repo.DeleteBookmark(b.ID)

	got := repo.BookmarksByCategory("dev")
	assert.DeepEqual(t, ids(got), []string{a.ID, c.ID})
	assert.Equal(t, got[1].Order, 2)

	// the next insert counts siblings, so it collides with the surviving rank 2
	d := repo.AddBookmark(model.NewBookmarkParams{URL: "https://d.com", Title: "D", CategoryID: "dev"})
	assert.Equal(t, d.Order, 2)
}

func TestRepository_UpdateBookmark(t *testing.T) {
	repo, _ := newTestRepo(t)
	b := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A", CategoryID: "dev", Tags: []string{"x"}})

	repo.UpdateBookmark(b.ID, model.BookmarkUpdate{
		Title:      model.Ptr("Renamed"),
		CategoryID: model.Ptr("study"),
	})
	repo.UpdateBookmark("missing", model.BookmarkUpdate{Title: model.Ptr("nope")})

	got := repo.Bookmarks()
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Title, "Renamed")
	assert.Equal(t, got[0].CategoryID, "study")
	assert.Equal(t, got[0].URL, "https://a.com")
	assert.DeepEqual(t, got[0].Tags, []string{"x"})
	assert.Assert(t, got[0].CreatedAt.Equal(b.CreatedAt))
}

func TestRepository_ToggleFavoriteTwiceRestores(t *testing.T) {
	repo, _ := newTestRepo(t)
	b := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A"})

	repo.ToggleFavorite(b.ID)
	assert.Assert(t, repo.Bookmarks()[0].IsFavorite)

	repo.ToggleFavorite(b.ID)
	assert.Assert(t, !repo.Bookmarks()[0].IsFavorite)

	repo.ToggleFavorite("missing")
	assert.Assert(t, !repo.Bookmarks()[0].IsFavorite)
}

func TestRepository_BookmarksByCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	// clock steps one minute per add, so later adds are newer
	old := repo.AddBookmark(model.NewBookmarkParams{URL: "https://old.com", Title: "Old", CategoryID: "dev", IsFavorite: true})
	mid := repo.AddBookmark(model.NewBookmarkParams{URL: "https://mid.com", Title: "Mid", CategoryID: "study"})
	recent := repo.AddBookmark(model.NewBookmarkParams{URL: "https://new.com", Title: "New", CategoryID: "dev", IsFavorite: true})

	// move "old" behind "recent" within dev
	repo.UpdateBookmark(old.ID, model.BookmarkUpdate{Order: model.Ptr(5)})

	tests := []struct {
		name       string
		categoryID string
		want       []string
	}{
		{name: "all newest first", categoryID: model.CategoryAll, want: []string{recent.ID, mid.ID, old.ID}},
		{name: "empty id means all", categoryID: "", want: []string{recent.ID, mid.ID, old.ID}},
		{name: "favorites newest first", categoryID: model.CategoryFavorites, want: []string{recent.ID, old.ID}},
		{name: "category by order", categoryID: "dev", want: []string{recent.ID, old.ID}},
		{name: "single", categoryID: "study", want: []string{mid.ID}},
		{name: "unknown", categoryID: "nope", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.DeepEqual(t, ids(repo.BookmarksByCategory(tt.categoryID)), tt.want)
		})
	}
}

func TestRepository_SearchBookmarks(t *testing.T) {
	repo, _ := newTestRepo(t)
	byTitle := repo.AddBookmark(model.NewBookmarkParams{URL: "https://example.org", Title: "dev.to"})
	byURL := repo.AddBookmark(model.NewBookmarkParams{URL: "https://DEVELOPER.mozilla.org", Title: "MDN"})
	byDesc := repo.AddBookmark(model.NewBookmarkParams{URL: "https://a.com", Title: "A", Description: "Dev notes"})
	repo.AddBookmark(model.NewBookmarkParams{URL: "https://b.com", Title: "Tagged", Tags: []string{"dev"}})

	assert.DeepEqual(t, ids(repo.SearchBookmarks("dev")), []string{byTitle.ID, byURL.ID, byDesc.ID})
	assert.DeepEqual(t, ids(repo.SearchBookmarks("  DEV ")), []string{byTitle.ID, byURL.ID, byDesc.ID})
	assert.Equal(t, len(repo.SearchBookmarks("")), 0)
	assert.Equal(t, len(repo.SearchBookmarks("   ")), 0)
	assert.Equal(t, len(repo.SearchBookmarks("zzz")), 0)
}
