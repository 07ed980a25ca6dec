package onet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultUserAgent = "yoyothesheep/ai-resilient-occupations (labor-market research)"
	defaultTimeout   = 30 * time.Second
)

// Client fetches occupation summary pages.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: defaultUserAgent,
		logger:    logger,
	}
}

// Fetch retrieves the occupation's summary page and extracts the wage, growth
// and openings values from it.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Enrichment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", pageURL, resp.Status)
	}

	c.logger.Debug("fetched summary page", zap.String("url", pageURL))

	return ParseSummary(resp.Body)
}
