package storage

import (
	"strings"

	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/model"
)

// Categories returns the stored categories in stored order.
// An absent collection is seeded with the defaults.
func (r *Repository) Categories() []model.Category {
	categories, ok := readCollection[model.Category](r, KeyCategories)
	if !ok {
		return r.seedCategories()
	}
	return categories
}

func (r *Repository) seedCategories() []model.Category {
	defaults := model.DefaultCategories()
	writeCollection(r, KeyCategories, defaults)
	r.log.Debug("seeded default categories", logger.Int("count", len(defaults)))
	return defaults
}

// AddCategory appends a new category ranked after the existing ones.
func (r *Repository) AddCategory(params model.NewCategoryParams) model.Category {
	categories := r.Categories()
	category := model.NewCategory(params, model.NewCategoryID(), len(categories))

	writeCollection(r, KeyCategories, append(categories, category))
	return category
}

// UpdateCategory merges update into the category with the given id.
// Unknown and virtual ids are ignored.
func (r *Repository) UpdateCategory(id string, update model.CategoryUpdate) {
	if model.IsVirtualCategory(id) {
		return
	}

	categories := r.Categories()
	found := false
	for i := range categories {
		if categories[i].ID == id {
			categories[i] = update.Apply(categories[i])
			found = true
		}
	}
	if !found {
		return
	}

	writeCollection(r, KeyCategories, categories)
}

// DeleteCategory removes the category, renumbers the remaining ones to
// 0..n-1 and moves its bookmarks to model.Uncategorized.
// Callers caching bookmarks must reload them afterwards.
func (r *Repository) DeleteCategory(id string) {
	if model.IsVirtualCategory(id) {
		return
	}

	categories := r.Categories()
	remaining := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID == id {
			continue
		}
		c.Order = len(remaining)
		remaining = append(remaining, c)
	}
	writeCollection(r, KeyCategories, remaining)

	bookmarks := r.Bookmarks()
	moved := 0
	for i := range bookmarks {
		if bookmarks[i].CategoryID == id {
			bookmarks[i].CategoryID = model.Uncategorized
			moved++
		}
	}
	writeCollection(r, KeyBookmarks, bookmarks)

	if moved > 0 {
		r.log.Debug("moved bookmarks of deleted category",
			logger.String("category", id),
			logger.Int("count", moved))
	}
}

// SearchCategories matches query case-insensitively against category names.
// A blank query returns every category.
func (r *Repository) SearchCategories(query string) []model.Category {
	categories := r.Categories()
	q := normalizeQuery(query)
	if q == "" {
		return categories
	}

	result := []model.Category{}
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), q) {
			result = append(result, c)
		}
	}
	return result
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
