package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/linkbox/internal/model"
)

// Result represents a fuzzy search match.
type Result struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int // byte offsets into Target(Bookmark)
	Score          int
}

// Target returns the text a bookmark is matched against: its title and URL.
func Target(b model.Bookmark) string {
	return b.Title + " " + b.URL
}

// TitleIndexes returns the matched indexes that fall inside the title.
func (r Result) TitleIndexes() []int {
	var out []int
	for _, idx := range r.MatchedIndexes {
		if idx < len(r.Bookmark.Title) {
			out = append(out, idx)
		}
	}
	return out
}

// bookmarkSource implements fuzzy.Source for a bookmark slice.
type bookmarkSource []model.Bookmark

func (bs bookmarkSource) String(i int) string {
	return Target(bs[i])
}

func (bs bookmarkSource) Len() int {
	return len(bs)
}

// FuzzyFilter matches query against the title and URL of each bookmark.
// Returns results sorted by match score (best first). A blank query returns
// every bookmark in input order.
func FuzzyFilter(bookmarks []model.Bookmark, query string) []Result {
	if query == "" {
		results := make([]Result, len(bookmarks))
		for i, b := range bookmarks {
			results[i] = Result{Bookmark: b}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, bookmarkSource(bookmarks))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
