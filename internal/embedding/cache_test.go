package embedding

import (
	"context"
	"testing"
)

func TestVectorCache_GetSet(t *testing.T) {
	c := NewVectorCache(2)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", []float32{1})
	vec, ok := c.Get("a")
	if !ok || len(vec) != 1 || vec[0] != 1 {
		t.Errorf("got %v, %v", vec, ok)
	}
}

func TestVectorCache_EvictsLRU(t *testing.T) {
	c := NewVectorCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	// Touch "a" so "b" is the least recently used.
	c.Get("a")
	c.Set("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be cached")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestVectorCache_UpdateExisting(t *testing.T) {
	c := NewVectorCache(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{9})
	vec, ok := c.Get("a")
	if !ok || vec[0] != 9 {
		t.Errorf("got %v, %v", vec, ok)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(context.Background(), "hello")
	other, _ := e.Embed(context.Background(), "different")

	if len(a) != 8 {
		t.Errorf("dims = %d, want 8", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text must produce the same embedding")
		}
	}
	same := true
	for i := range a {
		if a[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should produce different embeddings")
	}
}
