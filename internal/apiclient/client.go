// Package apiclient is a typed HTTP client for the textwash API, used by
// the CLI's remote mode.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/textwash/internal/options"
)

// Client communicates with a running textwash server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type markupRequest struct {
	HTML    string          `json:"html"`
	Options options.Options `json:"options"`
}

type markupResponse struct {
	HTML string `json:"html"`
}

// Sanitize runs markup through the server's full pipeline.
func (c *Client) Sanitize(ctx context.Context, markup string, opts options.Options) (string, error) {
	return c.postMarkup(ctx, "/api/sanitize", markup, opts)
}

// Highlight returns markup with every flagged character wrapped in a
// marker span.
func (c *Client) Highlight(ctx context.Context, markup string, opts options.Options) (string, error) {
	return c.postMarkup(ctx, "/api/highlight", markup, opts)
}

func (c *Client) postMarkup(ctx context.Context, path, markup string, opts options.Options) (string, error) {
	body, err := json.Marshal(markupRequest{HTML: markup, Options: opts})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	var out markupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.HTML, nil
}

// Stats fetches the server's pass-latency and queue metrics as raw JSON.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get stats: status %d: %s", resp.StatusCode, string(respBody))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	return json.RawMessage(raw), nil
}

// Close releases any resources (currently idle connections).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
