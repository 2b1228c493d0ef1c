package importer

import (
	"strings"

	"github.com/nikbrunner/linkbox/internal/model"
)

// Store is the subset of the application store used by Merge.
type Store interface {
	Categories() []model.Category
	Bookmarks() []model.Bookmark
	AddCategory(params model.NewCategoryParams) model.Category
	AddBookmark(params model.NewBookmarkParams) model.Bookmark
}

// Merge adds imported links to store. Categories are matched by name
// (case-insensitive) and created when missing; links whose URL is already
// stored, or repeated within the import, are skipped.
func Merge(store Store, imported []ImportedBookmark) (added, skipped int) {
	categoryIDs := make(map[string]string)
	for _, c := range store.Categories() {
		key := strings.ToLower(c.Name)
		if _, ok := categoryIDs[key]; !ok {
			categoryIDs[key] = c.ID
		}
	}

	seen := make(map[string]bool)
	for _, b := range store.Bookmarks() {
		seen[b.URL] = true
	}

	for _, ib := range imported {
		if seen[ib.URL] {
			skipped++
			continue
		}
		seen[ib.URL] = true

		categoryID := model.Uncategorized
		if ib.CategoryName != "" {
			key := strings.ToLower(ib.CategoryName)
			id, ok := categoryIDs[key]
			if !ok {
				id = store.AddCategory(model.NewCategoryParams{Name: ib.CategoryName}).ID
				categoryIDs[key] = id
			}
			categoryID = id
		}

		store.AddBookmark(ib.toParams(categoryID))
		added++
	}

	return added, skipped
}
