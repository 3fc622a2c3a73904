package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client forwards validated requests to the backend API and relays the
// response verbatim.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zerolog.Logger
}

func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Forward sends the request downstream and returns the backend status,
// body and content type.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body []byte) (int, []byte, string, error) {
	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, "", fmt.Errorf("building backend request: %w", err)
	}
	for _, name := range []string{"Content-Type", "X-Sharer-User-Id", "X-Request-Id"} {
		if v := header.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, "", fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, "", fmt.Errorf("reading backend response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("forwarded request")

	return resp.StatusCode, respBody, resp.Header.Get("Content-Type"), nil
}
