package exporter

import (
	"cmp"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nikbrunner/linkbox/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/linkbox-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("linkbox-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders categories and bookmarks as Netscape bookmark HTML.
// Each category becomes a folder; bookmarks without a known category are
// written at the root after the folders.
func ExportHTML(categories []model.Category, bookmarks []model.Bookmark) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	categories = slices.Clone(categories)
	slices.SortStableFunc(categories, func(a, b model.Category) int {
		return cmp.Compare(a.Order, b.Order)
	})

	byCategory := make(map[string][]model.Bookmark)
	for _, bm := range bookmarks {
		byCategory[bm.CategoryID] = append(byCategory[bm.CategoryID], bm)
	}

	known := make(map[string]bool)
	for _, c := range categories {
		known[c.ID] = true

		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(c.Name))
		b.WriteString("    <DL><p>\n")
		writeBookmarks(&b, byCategory[c.ID], 2)
		b.WriteString("    </DL><p>\n")
	}

	var root []model.Bookmark
	for _, bm := range bookmarks {
		if !known[bm.CategoryID] {
			root = append(root, bm)
		}
	}
	writeBookmarks(&b, root, 1)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeBookmarks writes bookmarks ordered by their rank.
func writeBookmarks(b *strings.Builder, bookmarks []model.Bookmark, indent int) {
	prefix := strings.Repeat("    ", indent)

	bookmarks = slices.Clone(bookmarks)
	slices.SortStableFunc(bookmarks, func(a, b model.Bookmark) int {
		return cmp.Compare(a.Order, b.Order)
	})

	for _, bm := range bookmarks {
		fmt.Fprintf(b, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"", prefix, html.EscapeString(bm.URL), bm.CreatedAt.Unix())
		if len(bm.Tags) > 0 {
			fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(bm.Tags, ",")))
		}
		if bm.Favicon != "" {
			fmt.Fprintf(b, " ICON=\"%s\"", html.EscapeString(bm.Favicon))
		}
		fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(bm.Title))
	}
}
