package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/linkbox/internal/model"
)

// ImportedBookmark is one link read from a bookmark export, before it is
// assigned an id or a category.
type ImportedBookmark struct {
	CategoryName string // nearest enclosing folder, empty at the root
	URL          string
	Title        string
	Favicon      string
	Tags         []string
	CreatedAt    time.Time // zero if the file had no ADD_DATE
}

// ParseHTMLBookmarks parses Netscape bookmark HTML. Nested folders are
// flattened: a link belongs to its nearest enclosing folder.
func ParseHTMLBookmarks(r io.Reader) ([]ImportedBookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var bookmarks []ImportedBookmark

	var folderStack []string
	pendingFolder := "" // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}

				category := ""
				if len(folderStack) > 0 {
					category = folderStack[len(folderStack)-1]
				}

				bookmarks = append(bookmarks, ImportedBookmark{
					CategoryName: category,
					URL:          href,
					Title:        title,
					Favicon:      getAttr(n, "icon"),
					Tags:         parseTags(getAttr(n, "tags")),
					CreatedAt:    parseAddDate(getAttr(n, "add_date")),
				})
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return bookmarks, nil
}

func parseAddDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func parseTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

// toParams converts an imported link into bookmark parameters for categoryID.
func (ib ImportedBookmark) toParams(categoryID string) model.NewBookmarkParams {
	return model.NewBookmarkParams{
		URL:        ib.URL,
		Title:      ib.Title,
		Favicon:    ib.Favicon,
		CategoryID: categoryID,
		Tags:       ib.Tags,
	}
}
