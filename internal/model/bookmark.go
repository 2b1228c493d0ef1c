package model

import (
	"slices"
	"time"
)

// Uncategorized is the category assignment for bookmarks without a real category.
// It is never stored as a Category.
const Uncategorized = "uncategorized"

// Bookmark represents a saved URL with display metadata.
type Bookmark struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Favicon     string    `json:"favicon,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Screenshot  string    `json:"screenshot,omitempty"`
	CategoryID  string    `json:"categoryId"`
	IsFavorite  bool      `json:"isFavorite"`
	Tags        []string  `json:"tags,omitempty"`
	Order       int       `json:"order"` // rank within CategoryID
	CreatedAt   time.Time `json:"createdAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
// ID, Order and CreatedAt are assigned on creation.
type NewBookmarkParams struct {
	URL         string
	Title       string
	Description string
	Favicon     string
	Thumbnail   string
	Screenshot  string
	CategoryID  string
	IsFavorite  bool
	Tags        []string
}

// NewBookmark builds a Bookmark from params with the given id, order and creation time.
// An empty CategoryID becomes Uncategorized.
func NewBookmark(params NewBookmarkParams, id string, order int, createdAt time.Time) Bookmark {
	categoryID := params.CategoryID
	if categoryID == "" {
		categoryID = Uncategorized
	}

	return Bookmark{
		ID:          id,
		URL:         params.URL,
		Title:       params.Title,
		Description: params.Description,
		Favicon:     params.Favicon,
		Thumbnail:   params.Thumbnail,
		Screenshot:  params.Screenshot,
		CategoryID:  categoryID,
		IsFavorite:  params.IsFavorite,
		Tags:        slices.Clone(params.Tags),
		Order:       order,
		CreatedAt:   createdAt,
	}
}

// BookmarkUpdate is a partial update for a Bookmark. Nil fields are left untouched.
type BookmarkUpdate struct {
	URL         *string
	Title       *string
	Description *string
	Favicon     *string
	Thumbnail   *string
	Screenshot  *string
	CategoryID  *string
	IsFavorite  *bool
	Tags        *[]string // replaces the whole list
	Order       *int
}

// IsEmpty reports whether the update sets no field.
func (u BookmarkUpdate) IsEmpty() bool {
	return u.URL == nil && u.Title == nil && u.Description == nil &&
		u.Favicon == nil && u.Thumbnail == nil && u.Screenshot == nil &&
		u.CategoryID == nil && u.IsFavorite == nil && u.Tags == nil && u.Order == nil
}

// Apply returns b with the set fields of u merged in.
func (u BookmarkUpdate) Apply(b Bookmark) Bookmark {
	if u.URL != nil {
		b.URL = *u.URL
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Favicon != nil {
		b.Favicon = *u.Favicon
	}
	if u.Thumbnail != nil {
		b.Thumbnail = *u.Thumbnail
	}
	if u.Screenshot != nil {
		b.Screenshot = *u.Screenshot
	}
	if u.CategoryID != nil {
		b.CategoryID = *u.CategoryID
	}
	if u.IsFavorite != nil {
		b.IsFavorite = *u.IsFavorite
	}
	if u.Tags != nil {
		b.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.Order != nil {
		b.Order = *u.Order
	}
	return b
}
