package model

import "strings"

// Virtual category ids. They are synthesized on read and never stored.
const (
	CategoryAll       = "all"
	CategoryFavorites = "favorites"
)

// UntitledName is the name given to categories created or renamed without one.
const UntitledName = "Untitled"

// Category groups bookmarks in the sidebar.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Order int    `json:"order"`
}

// NewCategoryParams holds parameters for creating a new Category.
type NewCategoryParams struct {
	Name  string
	Icon  string
	Color string
}

// NewCategory builds a Category from params with the given id and order.
func NewCategory(params NewCategoryParams, id string, order int) Category {
	return Category{
		ID:    id,
		Name:  params.Name,
		Icon:  params.Icon,
		Color: params.Color,
		Order: order,
	}
}

// IsVirtualCategory reports whether id names the "all" or "favorites" view.
func IsVirtualCategory(id string) bool {
	return id == CategoryAll || id == CategoryFavorites
}

// VirtualCategory synthesizes the category record for a virtual id.
func VirtualCategory(id string) (Category, bool) {
	switch id {
	case CategoryAll:
		return Category{ID: CategoryAll, Name: "All Bookmarks", Order: -2}, true
	case CategoryFavorites:
		return Category{ID: CategoryFavorites, Name: "Favorites", Order: -1}, true
	}
	return Category{}, false
}

// DefaultCategories returns the categories seeded into an empty store.
func DefaultCategories() []Category {
	return []Category{
		{ID: "dev", Name: "개발", Order: 0},
		{ID: "study", Name: "공부", Order: 1},
	}
}

// CategoryUpdate is a partial update for a Category. Nil fields are left untouched.
type CategoryUpdate struct {
	Name  *string
	Icon  *string
	Color *string
	Order *int
}

// Apply returns c with the set fields of u merged in.
// A blank name is stored as UntitledName.
func (u CategoryUpdate) Apply(c Category) Category {
	if u.Name != nil {
		c.Name = *u.Name
		if strings.TrimSpace(c.Name) == "" {
			c.Name = UntitledName
		}
	}
	if u.Icon != nil {
		c.Icon = *u.Icon
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	if u.Order != nil {
		c.Order = *u.Order
	}
	return c
}
