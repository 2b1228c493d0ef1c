package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nikbrunner/linkbox/internal/model"
)

// Bookmarks returns every stored bookmark in stored order.
// An absent collection is initialized empty.
func (r *Repository) Bookmarks() []model.Bookmark {
	bookmarks, ok := readCollection[model.Bookmark](r, KeyBookmarks)
	if !ok {
		return r.seedBookmarks()
	}
	return bookmarks
}

func (r *Repository) seedBookmarks() []model.Bookmark {
	empty := []model.Bookmark{}
	writeCollection(r, KeyBookmarks, empty)
	return empty
}

// AddBookmark appends a new bookmark ranked after the bookmarks already in its category.
func (r *Repository) AddBookmark(params model.NewBookmarkParams) model.Bookmark {
	bookmarks := r.Bookmarks()

	bookmark := model.NewBookmark(params, model.NewBookmarkID(), 0, r.now())
	for _, b := range bookmarks {
		if b.CategoryID == bookmark.CategoryID {
			bookmark.Order++
		}
	}

	writeCollection(r, KeyBookmarks, append(bookmarks, bookmark))
	return bookmark
}

// UpdateBookmark merges update into the bookmark with the given id.
func (r *Repository) UpdateBookmark(id string, update model.BookmarkUpdate) {
	r.modifyBookmark(id, update.Apply)
}

// ToggleFavorite flips the favorite flag of the bookmark with the given id.
func (r *Repository) ToggleFavorite(id string) {
	r.modifyBookmark(id, func(b model.Bookmark) model.Bookmark {
		b.IsFavorite = !b.IsFavorite
		return b
	})
}

func (r *Repository) modifyBookmark(id string, fn func(model.Bookmark) model.Bookmark) {
	bookmarks := r.Bookmarks()
	found := false
	for i := range bookmarks {
		if bookmarks[i].ID == id {
			bookmarks[i] = fn(bookmarks[i])
			found = true
		}
	}
	if !found {
		return
	}

	writeCollection(r, KeyBookmarks, bookmarks)
}

// DeleteBookmark removes the bookmark with the given id.
// The order of its former siblings is left as is, gaps included.
func (r *Repository) DeleteBookmark(id string) {
	bookmarks := r.Bookmarks()
	remaining := slices.DeleteFunc(bookmarks, func(b model.Bookmark) bool {
		return b.ID == id
	})
	writeCollection(r, KeyBookmarks, remaining)
}

// BookmarksByCategory returns the bookmarks shown for a category id:
// newest first for "all" (or "") and "favorites", by order for real categories.
func (r *Repository) BookmarksByCategory(categoryID string) []model.Bookmark {
	bookmarks := r.Bookmarks()

	switch categoryID {
	case "", model.CategoryAll:
		slices.SortStableFunc(bookmarks, newestFirst)
		return bookmarks

	case model.CategoryFavorites:
		favorites := filterBookmarks(bookmarks, func(b model.Bookmark) bool { return b.IsFavorite })
		slices.SortStableFunc(favorites, newestFirst)
		return favorites
	}

	result := filterBookmarks(bookmarks, func(b model.Bookmark) bool { return b.CategoryID == categoryID })
	slices.SortStableFunc(result, func(a, b model.Bookmark) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return result
}

// SearchBookmarks matches query case-insensitively against title, URL and
// description. A blank query matches nothing.
func (r *Repository) SearchBookmarks(query string) []model.Bookmark {
	q := normalizeQuery(query)
	if q == "" {
		return []model.Bookmark{}
	}

	return filterBookmarks(r.Bookmarks(), func(b model.Bookmark) bool {
		return strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.URL), q) ||
			strings.Contains(strings.ToLower(b.Description), q)
	})
}

func newestFirst(a, b model.Bookmark) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func filterBookmarks(bookmarks []model.Bookmark, keep func(model.Bookmark) bool) []model.Bookmark {
	result := []model.Bookmark{}
	for _, b := range bookmarks {
		if keep(b) {
			result = append(result, b)
		}
	}
	return result
}
