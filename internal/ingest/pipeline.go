package ingest

import (
	"context"
	"fmt"

	"github.com/hyperjump/shirabe/internal/embedding"
)

// Pipeline turns document text into a single embedding vector: chunk,
// embed each chunk, mean-pool.
type Pipeline struct {
	embedder embedding.Embedder
	chunker  *Chunker
}

// NewPipeline creates a pipeline that splits text into chunks of at most
// chunkSize runes before embedding.
func NewPipeline(embedder embedding.Embedder, chunkSize int) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		chunker:  NewChunker(chunkSize),
	}
}

// EmbedDocument returns the document-level vector for text: the element-wise
// arithmetic mean of the per-chunk embeddings. Chunks are embedded
// sequentially in input order, one provider call at a time; the first failed
// chunk aborts the whole document. Mean-pooling is order-independent, so a
// caller parallelizing chunk embedding later would get the same result.
//
// Empty text returns (nil, nil): no embedding, not an error. Callers treat a
// nil vector as "nothing to store".
func (p *Pipeline) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if len(vectors) > 0 && len(vec) != len(vectors[0]) {
			return nil, fmt.Errorf("embed chunk %d/%d: dimension mismatch: got %d, expected %d",
				i+1, len(chunks), len(vec), len(vectors[0]))
		}
		vectors = append(vectors, vec)
	}
	return meanPool(vectors), nil
}

// EmbedQuery embeds query text as a single chunk, with no splitting.
// Queries are assumed short enough to fit one provider call.
func (p *Pipeline) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return p.embedder.Embed(ctx, query)
}

// ChunkSize returns the pipeline's maximum chunk size in runes.
func (p *Pipeline) ChunkSize() int {
	return p.chunker.Size()
}

// meanPool returns the element-wise arithmetic mean of vectors, which must be
// non-empty and uniform in length. Accumulation is in float64 to keep
// rounding independent of chunk count.
func meanPool(vectors [][]float32) []float32 {
	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, vec := range vectors {
		for i, v := range vec {
			sums[i] += float64(v)
		}
	}
	out := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sums {
		out[i] = float32(s / n)
	}
	return out
}
