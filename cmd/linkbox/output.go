package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nikbrunner/linkbox/internal/model"
)

func printBookmarks(w io.Writer, bookmarks []model.Bookmark, categories []model.Category) {
	if len(bookmarks) == 0 {
		fmt.Fprintln(w, "No bookmarks.")
		return
	}

	names := categoryNames(categories)
	rows := make([][]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		fav := ""
		if b.IsFavorite {
			fav = "★"
		}
		category, ok := names[b.CategoryID]
		if !ok {
			category = b.CategoryID
		}
		rows = append(rows, []string{shortID(b.ID), fav, b.Title, b.URL, category, strings.Join(b.Tags, ",")})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "★", "TITLE", "URL", "CATEGORY", "TAGS").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func printCategories(w io.Writer, categories []model.Category, counts map[string]int) {
	rows := make([][]string, 0, len(categories)+3)
	for _, id := range []string{model.CategoryAll, model.CategoryFavorites} {
		c, _ := model.VirtualCategory(id)
		rows = append(rows, []string{c.ID, c.Name, fmt.Sprint(counts[c.ID])})
	}
	for _, c := range categories {
		name := c.Name
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		rows = append(rows, []string{shortID(c.ID), name, fmt.Sprint(counts[c.ID])})
	}
	if n := counts[model.Uncategorized]; n > 0 {
		rows = append(rows, []string{model.Uncategorized, "-", fmt.Sprint(n)})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "BOOKMARKS").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}
