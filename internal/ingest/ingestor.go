package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperjump/shirabe/internal/extract"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/pkg/utils"
	"go.uber.org/zap"
)

// Ingestor orchestrates document ingestion: extract text, write catalog
// metadata, run the chunk-and-embed pipeline, persist the vector.
//
// The catalog write succeeds independently of the embedding outcome: a
// document whose embedding fails (provider down, malformed response) is still
// listed and previewable, it just never appears in semantic search results.
type Ingestor struct {
	catalog    storage.Catalog
	vectors    storage.VectorStore
	pipeline   *Pipeline
	extractor  *extract.Extractor
	previewLen int
	logger     *zap.Logger // optional; when set, logs ingestion events
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets a logger for ingestion events (embedding failures, etc.).
func WithLogger(l *zap.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

// NewIngestor creates an ingestor with the given dependencies.
// previewLen is the number of runes kept as the document preview (a "..."
// marker is appended when the text is longer).
func NewIngestor(
	catalog storage.Catalog,
	vectors storage.VectorStore,
	pipeline *Pipeline,
	extractor *extract.Extractor,
	previewLen int,
	opts ...IngestorOption,
) *Ingestor {
	ing := &Ingestor{
		catalog:    catalog,
		vectors:    vectors,
		pipeline:   pipeline,
		extractor:  extractor,
		previewLen: previewLen,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile extracts text from the file at path and ingests it under the
// given display filename. Extraction failure aborts: no document is created.
// Re-ingesting the same filename creates a new document rather than updating
// the previous one.
func (ing *Ingestor) IngestFile(ctx context.Context, filename, path string) (*models.IngestResult, error) {
	text, err := ing.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return ing.IngestText(ctx, filename, text)
}

// IngestText ingests already-extracted text under the given filename.
func (ing *Ingestor) IngestText(ctx context.Context, filename, text string) (*models.IngestResult, error) {
	doc := &models.Document{
		ID:       uuid.New().String(),
		Filename: filename,
		Preview:  utils.Truncate(text, ing.previewLen),
	}
	if err := ing.catalog.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document metadata: %w", err)
	}

	vec, err := ing.pipeline.EmbedDocument(ctx, text)
	if err != nil {
		// Metadata success is independent of embedding success: the document
		// stays listed, it is just not retrievable by semantic search.
		if ing.logger != nil {
			ing.logger.Warn("embedding failed, document stored without vector",
				zap.String("doc_id", doc.ID),
				zap.String("filename", filename),
				zap.Error(err))
		}
		return &models.IngestResult{DocumentID: doc.ID, Preview: doc.Preview}, nil
	}
	if vec == nil {
		// Empty extracted text: nothing to embed, nothing to store.
		return &models.IngestResult{DocumentID: doc.ID, Preview: doc.Preview}, nil
	}

	if err := ing.vectors.PutVector(ctx, doc.ID, vec); err != nil {
		return nil, fmt.Errorf("store vector: %w", err)
	}
	if ing.logger != nil {
		ing.logger.Debug("document ingested",
			zap.String("doc_id", doc.ID),
			zap.String("filename", filename),
			zap.Int("text_runes", len([]rune(text))))
	}
	return &models.IngestResult{DocumentID: doc.ID, Preview: doc.Preview}, nil
}
