package main

import (
	"fmt"
	"strings"

	"github.com/nikbrunner/linkbox/internal/model"
)

// shortID returns the tail of an id. Generated ids are time ordered, so their
// tails are what tells them apart.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

// findBookmark resolves ref as a full id or a unique id suffix.
func findBookmark(bookmarks []model.Bookmark, ref string) (model.Bookmark, error) {
	var matches []model.Bookmark
	for _, b := range bookmarks {
		if b.ID == ref {
			return b, nil
		}
		if strings.HasSuffix(b.ID, ref) {
			matches = append(matches, b)
		}
	}

	switch len(matches) {
	case 0:
		return model.Bookmark{}, fmt.Errorf("no bookmark %q", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Bookmark{}, fmt.Errorf("bookmark id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// findCategory resolves ref as a full id, a name (case-insensitive) or a
// unique id suffix.
func findCategory(categories []model.Category, ref string) (model.Category, error) {
	for _, c := range categories {
		if c.ID == ref {
			return c, nil
		}
	}

	var byName, bySuffix []model.Category
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			byName = append(byName, c)
		}
		if strings.HasSuffix(c.ID, ref) {
			bySuffix = append(bySuffix, c)
		}
	}

	switch {
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1:
		return model.Category{}, fmt.Errorf("category name %q is ambiguous", ref)
	case len(bySuffix) == 1:
		return bySuffix[0], nil
	case len(bySuffix) > 1:
		return model.Category{}, fmt.Errorf("category id %q is ambiguous", ref)
	}
	return model.Category{}, fmt.Errorf("no category %q", ref)
}

// categoryID resolves a --category flag value for a bookmark. Empty and
// "uncategorized" leave the bookmark without a category.
func categoryID(categories []model.Category, ref string) (string, error) {
	if ref == "" || ref == model.Uncategorized {
		return model.Uncategorized, nil
	}
	c, err := findCategory(categories, ref)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// categoryNames maps category ids to display names.
func categoryNames(categories []model.Category) map[string]string {
	names := map[string]string{model.Uncategorized: "-"}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}
