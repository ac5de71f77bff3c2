package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultUserAgent = "review-search/1.0"

// NewClient instantiates a GraphQL client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("graphql: endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("graphql: invalid endpoint %q", cfg.Endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		endpoint:   u.String(),
		token:      cfg.Token,
		userAgent:  userAgent,
		httpClient: httpClient,
	}, nil
}

// Do posts the operation and decodes the "data" member into out
func (c *Client) Do(ctx context.Context, op Request, out any) error {
	if c == nil {
		return fmt.Errorf("graphql: client is nil")
	}
	if strings.TrimSpace(op.Query) == "" {
		return fmt.Errorf("graphql: query is required")
	}

	body, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("graphql: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graphql: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("graphql: decode response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return &ResponseError{Errors: payload.Errors}
	}
	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return fmt.Errorf("graphql: response has no data")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("graphql: decode data: %w", err)
	}
	return nil
}
