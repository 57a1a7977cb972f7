// Package ingest provides the document-to-vector pipeline and ingestion orchestration.
package ingest

// Chunker splits text into contiguous, non-overlapping chunks of at most
// size runes, preserving order. Splitting is purely positional: it can cut
// mid-word or mid-sentence, which keeps the pipeline simple at the cost of
// chunk boundaries that ignore language structure.
type Chunker struct {
	size int
}

// NewChunker creates a chunker with the given maximum chunk size in runes.
func NewChunker(size int) *Chunker {
	if size <= 0 {
		size = 2000
	}
	return &Chunker{size: size}
}

// Chunk splits text into ceil(len/size) chunks; the final chunk may be
// shorter. Concatenating the returned chunks in order reconstructs text
// exactly. Empty text yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+c.size-1)/c.size)
	for start := 0; start < len(runes); start += c.size {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Size returns the configured maximum chunk size in runes.
func (c *Chunker) Size() int {
	return c.size
}
