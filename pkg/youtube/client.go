// Package youtube fetches the public metadata a run needs about a video:
// its id, its title and its caption track.
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/engage/pkg/logging"
)

const (
	DefaultBaseURL  = "https://www.youtube.com"
	DefaultTimeout  = 15 * time.Second
	maxResponseSize = 10 << 20

	// PlaceholderTitle stands in when no title can be fetched.
	PlaceholderTitle = "Friend's Horror Video"
)

// ResolveVideoID extracts the "v" query parameter from a watch URL.
func ResolveVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	id := u.Query().Get("v")
	if id == "" {
		return "", false
	}
	return id, true
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client fetches titles and transcripts. Failures are logged and answered
// with a fallback value; nothing here is fatal to a run.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *logging.Logger
}

// NewClient creates a client for youtube.com.
func NewClient(logger *logging.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) watchURL(videoID string) string {
	return c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
