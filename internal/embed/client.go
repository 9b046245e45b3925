package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
)

// ClientConfig configures the HTTP embedding client.
type ClientConfig struct {
	// BaseURL is the embedding server base URL (default: local Ollama).
	BaseURL string

	// Model is the embedding model to request.
	Model string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Dimensions is the expected vector size (model-dependent).
	Dimensions int

	// Stats, when non-nil, records per-call latency.
	Stats *Stats
}

// Client calls an Ollama-compatible embeddings endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	dimensions int
	stats      *Stats
}

var _ Provider = (*Client)(nil)

// NewClient creates an embedding client. Zero config fields fall back to
// defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		stats:      cfg.Stats,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embed requests the embedding vector for text. Single attempt: transient
// failures surface to the caller, which recovers locally by skipping the
// affected item.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() {
		if c.stats != nil {
			c.stats.Record(time.Since(start).Milliseconds())
		}
	}()

	body, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp embedResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("embedding api: %s", apiResp.Error)
	}
	if len(apiResp.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding from api")
	}

	vec := make([]float32, len(apiResp.Embedding))
	for i, v := range apiResp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the configured vector size.
func (c *Client) Dimensions() int { return c.dimensions }

// ModelName returns the embedding model identifier.
func (c *Client) ModelName() string { return c.model }

// Ping checks the server's tags endpoint, which answers without running
// inference.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("embedding service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
