package feed

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
)

// Client fetches feed data from URLs or local files.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new feed client. A zero timeout means none.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch fetches a single feed from a URL or file path and returns the raw bytes.
// Returns nil if urlOrPath is empty.
func (c *Client) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}

	// Check if it's a local file path
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		data, err := os.ReadFile(urlOrPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", urlOrPath)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", urlOrPath)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", urlOrPath)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}
