package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// HTTPEmbedder calls an external embedding provider over HTTP.
// The provider exposes POST /embed {"text": ...} -> {"embedding": [...]}
// and GET /health -> {"status": ..., "model": ...}. Calls are stateless and
// never retried: a transient provider outage surfaces as an error and the
// caller re-submits.
type HTTPEmbedder struct {
	baseURL string
	client  *http.Client
	cache   *VectorCache // optional; nil disables caching

	mu         sync.Mutex
	dimensions int // 0 until fixed by config or the first response
}

// HTTPOption configures an HTTPEmbedder.
type HTTPOption func(*HTTPEmbedder)

// WithTimeout sets the per-call timeout (default 30s).
func WithTimeout(d time.Duration) HTTPOption {
	return func(e *HTTPEmbedder) {
		if d > 0 {
			e.client.Timeout = d
		}
	}
}

// WithCache puts an LRU cache keyed by text in front of the provider.
func WithCache(size int) HTTPOption {
	return func(e *HTTPEmbedder) {
		if size > 0 {
			e.cache = NewVectorCache(size)
		}
	}
}

// NewHTTPEmbedder creates an embedder backed by the provider at baseURL.
// If dimensions is positive it is enforced on every response; if 0 the
// dimensionality is adopted from the first response and enforced thereafter.
func NewHTTPEmbedder(baseURL string, dimensions int, opts ...HTTPOption) *HTTPEmbedder {
	e := &HTTPEmbedder{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: defaultTimeout},
		dimensions: dimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// providerError is the provider's error body: {"detail": "..."}.
type providerError struct {
	Detail string `json:"detail"`
}

// Embed requests an embedding for text from the provider.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		if vec, ok := e.cache.Get(text); ok {
			return vec, nil
		}
	}

	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		var pe providerError
		if json.Unmarshal(payload, &pe) == nil && pe.Detail != "" {
			return nil, fmt.Errorf("embedding provider returned %d: %s", resp.StatusCode, pe.Detail)
		}
		return nil, fmt.Errorf("embedding provider returned %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding provider returned an empty vector")
	}
	if err := e.checkDimensions(len(out.Embedding)); err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(text, out.Embedding)
	}
	return out.Embedding, nil
}

// checkDimensions enforces uniform dimensionality. The first observed length
// fixes it when no dimensionality was configured.
func (e *HTTPEmbedder) checkDimensions(got int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dimensions == 0 {
		e.dimensions = got
		return nil
	}
	if got != e.dimensions {
		return fmt.Errorf("embedding dimension mismatch: got %d, expected %d", got, e.dimensions)
	}
	return nil
}

// Dimensions returns the embedding dimensionality, or 0 if not yet known.
func (e *HTTPEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// ProviderHealth is the provider's health response.
type ProviderHealth struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Health checks the provider's /health endpoint.
func (e *HTTPEmbedder) Health(ctx context.Context) (*ProviderHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding provider unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding provider health returned %d", resp.StatusCode)
	}
	var h ProviderHealth
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &h, nil
}

// Close is a no-op; the embedder holds no per-call state.
func (e *HTTPEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
