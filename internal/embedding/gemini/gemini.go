package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"infomate/internal/domain"
)

// Client embeds text through the Gemini embedContent REST endpoint.
// Calls are single blocking round trips; a failed call fails the request
// that triggered it and is not retried.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client

	mu        sync.Mutex
	dimension int
}

// Config configures the Gemini embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GOOGLE_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "gemini" }

// Prepare is not required for remote embedding; dimension is learned lazily
// from the first returned vector.
func (c *Client) Prepare(ctx context.Context, corpus []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dimension
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embed returns an embedding vector for the given text. The response has
// exactly one accepted shape; anything else is ErrMalformedEmbedding.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	body := embedRequest{
		Model:   "models/" + c.model,
		Content: content{Parts: []part{{Text: text}}},
	}
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini embeddings failed: %s", resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out embedResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEmbedding, err)
	}
	if len(out.Embedding.Values) == 0 {
		return nil, domain.ErrMalformedEmbedding
	}
	c.mu.Lock()
	if c.dimension == 0 {
		c.dimension = len(out.Embedding.Values)
	}
	c.mu.Unlock()
	return out.Embedding.Values, nil
}
