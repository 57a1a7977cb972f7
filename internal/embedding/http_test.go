package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newProvider(t *testing.T, dims int, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed":
			atomic.AddInt64(calls, 1)
			var req struct {
				Text string `json:"text"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "text is required"})
				return
			}
			vec := make([]float32, dims)
			for i := range vec {
				vec[i] = float32(len(req.Text))
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"embedding": vec})
		case "/health":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK", "model": "test-model"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	var calls int64
	srv := newProvider(t, 4, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 4)
	defer e.Close()

	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 4 {
		t.Errorf("got %d dims, want 4", len(vec))
	}
	if e.Dimensions() != 4 {
		t.Errorf("Dimensions() = %d", e.Dimensions())
	}
}

func TestHTTPEmbedder_DimensionMismatch(t *testing.T) {
	var calls int64
	srv := newProvider(t, 4, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 8)
	defer e.Close()

	_, err := e.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !strings.Contains(err.Error(), "dimension mismatch") {
		t.Errorf("got %v", err)
	}
}

func TestHTTPEmbedder_AdoptsDimensionsLazily(t *testing.T) {
	var calls int64
	srv := newProvider(t, 6, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 0)
	defer e.Close()

	if e.Dimensions() != 0 {
		t.Errorf("dimensions should be unknown before first call, got %d", e.Dimensions())
	}
	if _, err := e.Embed(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if e.Dimensions() != 6 {
		t.Errorf("Dimensions() = %d, want 6", e.Dimensions())
	}
}

func TestHTTPEmbedder_ProviderErrorDetail(t *testing.T) {
	var calls int64
	srv := newProvider(t, 4, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 4)
	defer e.Close()

	_, err := e.Embed(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "text is required") {
		t.Errorf("error should carry provider detail, got %v", err)
	}
}

func TestHTTPEmbedder_Unreachable(t *testing.T) {
	e := NewHTTPEmbedder("http://127.0.0.1:1", 4)
	defer e.Close()
	if _, err := e.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for unreachable provider")
	}
}

func TestHTTPEmbedder_CacheAvoidsSecondCall(t *testing.T) {
	var calls int64
	srv := newProvider(t, 4, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 4, WithCache(16))
	defer e.Close()

	ctx := context.Background()
	if _, err := e.Embed(ctx, "same text"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(ctx, "same text"); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestHTTPEmbedder_Health(t *testing.T) {
	var calls int64
	srv := newProvider(t, 4, &calls)
	defer srv.Close()

	e := NewHTTPEmbedder(srv.URL, 4)
	defer e.Close()

	h, err := e.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Status != "OK" || h.Model != "test-model" {
		t.Errorf("got %+v", h)
	}
}
