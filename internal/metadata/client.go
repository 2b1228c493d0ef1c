package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nikbrunner/linkbox/internal/config"
	"github.com/nikbrunner/linkbox/internal/logger"
)

const maxResponseSize = 1 << 20

// Client fetches previews from the microlink API. Calls go through a circuit
// breaker that opens after five consecutive failures.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        logger.Logger
}

// NewClient creates a microlink client from cfg.
func NewClient(cfg config.Metadata, log logger.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	log = log.With(logger.String("component", "metadata"))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "microlink",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})

	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		log:        log,
	}
}

// Fetch returns the preview for rawURL with defaults filled in for missing fields.
func (c *Client) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return Metadata{}, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, u)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Metadata{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
		}
		return Metadata{}, err
	}

	return result.(Metadata), nil
}

func (c *Client) fetch(ctx context.Context, u *url.URL) (Metadata, error) {
	reqURL := c.endpoint + "?url=" + url.QueryEscape(u.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Metadata{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("%w: status %d", ErrMetadataUnavailable, resp.StatusCode)
	}

	var apiResp microlinkResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Metadata{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Status != "success" {
		return Metadata{}, fmt.Errorf("%w: status %q", ErrMetadataUnavailable, apiResp.Status)
	}

	meta := Metadata{
		URL:         apiResp.Data.URL,
		Title:       apiResp.Data.Title,
		Description: apiResp.Data.Description,
		Image:       apiResp.Data.Image.url(),
		Favicon:     apiResp.Data.Logo.url(),
	}
	return withDefaults(meta, u, c.endpoint), nil
}
