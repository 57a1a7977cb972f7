// Package embedding provides text embedding via a remote provider service.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text.
type Embedder interface {
	// Embed returns the embedding for text. Implementations must return
	// vectors of a single dimensionality for the lifetime of the embedder.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the embedding dimensionality, or 0 if it is not
	// yet known (it is fixed by the first successful Embed call).
	Dimensions() int
	Close() error
}
