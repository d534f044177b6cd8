// Package fetch issues the single HTTP request a ticker source needs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/rs/zerolog"
)

// maxBody bounds how much of a response is kept.
const maxBody = 8 << 20

type Client struct {
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

func NewClient(timeout time.Duration, userAgent string, log zerolog.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       log,
	}
}

// Get fetches url and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperr.FetchError{URL: url, Err: err}
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	url := req.URL.String()
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", req.Method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("fetched")

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &apperr.FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}
