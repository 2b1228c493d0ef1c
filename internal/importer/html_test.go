package importer_test

import (
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/linkbox/internal/importer"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}

	b := bookmarks[0]
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
	if b.CategoryName != "" {
		t.Errorf("expected root bookmark, got category %q", b.CategoryName)
	}
	if !b.CreatedAt.Equal(time.Unix(1234567890, 0)) {
		t.Errorf("expected ADD_DATE to be parsed, got %v", b.CreatedAt)
	}
}

func TestParseHTML_NestedFoldersAreFlattened(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)

	got := make(map[string]string)
	for _, b := range bookmarks {
		got[b.URL] = b.CategoryName
	}
	assert.DeepEqual(t, got, map[string]string{
		"https://react.dev":  "React",
		"https://github.com": "Development",
		"https://google.com": "",
	})
}

func TestParseHTML_TagsAndIcon(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="https://go.dev" TAGS="lang, go,,docs " ICON="data:image/png;base64,AAAA">Go</A>
</DL><p>`

	bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.Assert(t, len(bookmarks) == 1)

	assert.DeepEqual(t, bookmarks[0].Tags, []string{"lang", "go", "docs"})
	assert.Equal(t, bookmarks[0].Favicon, "data:image/png;base64,AAAA")
	assert.Check(t, bookmarks[0].CreatedAt.IsZero())
}

func TestParseHTML_SkipsEmptyHref(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="">Nothing</A>
    <DT><A>No href</A>
    <DT><A HREF="https://example.com"></A>
</DL><p>`

	bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)

	assert.Assert(t, len(bookmarks) == 1)
	// untitled links use the URL as title
	assert.Equal(t, bookmarks[0].Title, "https://example.com")
}

func TestParseHTML_EmptyFolder(t *testing.T) {
	html := `<DL><p>
    <DT><H3>Empty</H3>
    <DL><p>
    </DL><p>
    <DT><A HREF="https://root.com">Root</A>
</DL><p>`

	bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)

	assert.Assert(t, len(bookmarks) == 1)
	assert.Equal(t, bookmarks[0].CategoryName, "")
}
