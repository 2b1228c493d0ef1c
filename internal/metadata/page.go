package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const maxPageSize = 5 * 1024 * 1024

// PageFetcher reads the preview straight from the page's HTML head.
type PageFetcher struct {
	httpClient *http.Client
}

// NewPageFetcher creates a PageFetcher with the given request timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PageFetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch downloads rawURL and extracts its title, description, image and icon.
func (p *PageFetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return Metadata{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "linkbox/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("%w: status %d", ErrMetadataUnavailable, resp.StatusCode)
	}

	meta, err := parsePage(io.LimitReader(resp.Body, maxPageSize), resp.Request.URL)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse page: %w", err)
	}
	meta.URL = u.String()
	return withDefaults(meta, u, DefaultEndpoint), nil
}

// parsePage extracts preview fields from an HTML document. Open Graph values
// win over <title> and the description meta tag. Relative image and icon
// references are resolved against base.
func parsePage(r io.Reader, base *url.URL) (Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Metadata{}, err
	}

	var title, description, ogTitle, ogDescription, image, icon string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key := getAttr(n, "property")
				if key == "" {
					key = getAttr(n, "name")
				}
				content := strings.TrimSpace(getAttr(n, "content"))
				switch strings.ToLower(key) {
				case "description":
					description = content
				case "og:title":
					ogTitle = content
				case "og:description":
					ogDescription = content
				case "og:image":
					image = content
				}
			case "link":
				if icon == "" && hasToken(getAttr(n, "rel"), "icon") {
					icon = getAttr(n, "href")
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return Metadata{
		Title:       firstNonEmpty(ogTitle, title),
		Description: firstNonEmpty(ogDescription, description),
		Image:       resolveRef(base, image),
		Favicon:     resolveRef(base, icon),
	}, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
