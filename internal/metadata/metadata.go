package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nikbrunner/linkbox/internal/config"
	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/model"
)

// DefaultEndpoint is the microlink API used for previews and screenshots.
const DefaultEndpoint = "https://api.microlink.io"

var (
	ErrInvalidURL          = errors.New("invalid URL")
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)

// Metadata is the link preview for a URL.
type Metadata struct {
	URL         string
	Title       string
	Description string
	Image       string
	Favicon     string
	Screenshot  string
}

// Fetcher retrieves the preview for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Metadata, error)
}

// NewFetcher returns the fetcher selected by cfg, or nil when fetching is disabled.
func NewFetcher(cfg config.Metadata, log logger.Logger) Fetcher {
	if !cfg.Enabled {
		return nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "page":
		return NewPageFetcher(cfg.Timeout)
	default:
		return NewClient(cfg, log)
	}
}

// ValidateURL parses raw and requires an http or https URL with a host.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// FaviconURL returns the Google favicon service URL for host.
func FaviconURL(host string) string {
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(host) + "&sz=128"
}

// ScreenshotURL returns a microlink URL that embeds a screenshot of rawURL.
func ScreenshotURL(endpoint, rawURL string) string {
	return fmt.Sprintf("%s/?url=%s&screenshot=true&meta=false&embed=screenshot.url",
		strings.TrimRight(endpoint, "/"), url.QueryEscape(rawURL))
}

// Fallback is the preview used when nothing could be fetched: the hostname as
// title plus favicon and screenshot service URLs.
func Fallback(u *url.URL) Metadata {
	return withDefaults(Metadata{}, u, DefaultEndpoint)
}

func withDefaults(m Metadata, u *url.URL, endpoint string) Metadata {
	if m.URL == "" {
		m.URL = u.String()
	}
	if strings.TrimSpace(m.Title) == "" {
		m.Title = u.Hostname()
	}
	if m.Favicon == "" {
		m.Favicon = FaviconURL(u.Hostname())
	}
	if m.Screenshot == "" {
		m.Screenshot = ScreenshotURL(endpoint, u.String())
	}
	return m
}

// Resolve validates raw and fetches its preview. Only an invalid URL is an
// error; a failed fetch is logged and replaced by Fallback. A nil fetcher
// always yields the fallback.
func Resolve(ctx context.Context, f Fetcher, raw string, log logger.Logger) (Metadata, error) {
	u, err := ValidateURL(raw)
	if err != nil {
		return Metadata{}, err
	}
	if f == nil {
		return Fallback(u), nil
	}

	meta, err := f.Fetch(ctx, u.String())
	if err != nil {
		log.Warn("metadata fetch failed, using fallback",
			logger.String("url", u.String()),
			logger.Error(err))
		return Fallback(u), nil
	}
	return meta, nil
}

// BookmarkParams maps a preview into the parameters for a new bookmark.
func BookmarkParams(meta Metadata, categoryID string, tags []string) model.NewBookmarkParams {
	return model.NewBookmarkParams{
		URL:         meta.URL,
		Title:       meta.Title,
		Description: meta.Description,
		Favicon:     meta.Favicon,
		Thumbnail:   meta.Image,
		Screenshot:  meta.Screenshot,
		CategoryID:  categoryID,
		Tags:        tags,
	}
}
