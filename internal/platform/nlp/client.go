// Package nlp provides a thin HTTP client for an external clinical entity
// recognition service. The service accepts free text and returns labelled
// entity spans; callers decide how to group and render them, and are expected
// to fall back to rule-based extraction when the service is unreachable.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entity is a labelled span recognised in clinical text. Start and End are
// byte offsets into the submitted text.
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// maxResponseBytes caps how much of a service response is read.
const maxResponseBytes = 1 << 20

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) ClientOption {
	return func(cl *Client) { cl.apiKey = key }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// WithMinConfidence drops extracted entities whose confidence falls below min.
func WithMinConfidence(min float64) ClientOption {
	return func(cl *Client) { cl.minConfidence = min }
}

// Client talks to the entity recognition service.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	minConfidence float64
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []Entity `json:"entities"`
}

// Extract sends text to the recognition service and returns the labelled
// entities at or above the configured confidence threshold.
func (c *Client) Extract(ctx context.Context, text string) ([]Entity, error) {
	payload, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("nlp: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/entities", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("nlp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nlp: extract entities: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("nlp: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nlp: entity service returned %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("nlp: decode response: %w", err)
	}

	if c.minConfidence <= 0 {
		return out.Entities, nil
	}
	var kept []Entity
	for _, e := range out.Entities {
		if e.Confidence >= c.minConfidence {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// Healthy probes the service health endpoint, returning nil when the service
// answers 200.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("nlp: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nlp: health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nlp: health check returned %d", resp.StatusCode)
	}
	return nil
}
