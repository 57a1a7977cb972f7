// Package search implements the semantic retrieval protocol.
package search

import (
	"context"
	"fmt"

	"github.com/hyperjump/shirabe/internal/config"
	"github.com/hyperjump/shirabe/internal/ingest"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/storage"
	"go.uber.org/zap"
)

// Engine answers semantic search queries: it embeds the query text into a
// probe vector, asks the vector store for the nearest documents by cosine
// distance, and joins the hits with catalog metadata.
type Engine struct {
	catalog  storage.Catalog
	vectors  storage.VectorStore
	pipeline *ingest.Pipeline
	config   *config.SearchConfig
	logger   *zap.Logger // optional
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	catalog storage.Catalog,
	vectors storage.VectorStore,
	pipeline *ingest.Pipeline,
	cfg *config.SearchConfig,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		catalog:  catalog,
		vectors:  vectors,
		pipeline: pipeline,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search validates req, embeds the query as a single chunk, and returns the
// requested page of the distance-ranked result set. Similarity is reported as
// 1 - cosine distance. Documents without a stored vector are structurally
// absent from the vector store and therefore never appear here, even though
// they show up in catalog listings.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(e.config.DefaultLimit, e.config.MaxLimit); err != nil {
		return nil, err
	}

	probe, err := e.pipeline.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := e.vectors.NearestNeighbors(ctx, probe, req.Limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor query: %w", err)
	}

	ids := make([]string, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.DocumentID
	}
	docs, err := e.catalog.GetDocuments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load document metadata: %w", err)
	}

	results := make([]*models.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		doc, ok := docs[n.DocumentID]
		if !ok {
			// A vector without a catalog row should not happen; skip rather
			// than fail the whole page.
			if e.logger != nil {
				e.logger.Warn("vector hit has no catalog row", zap.String("doc_id", n.DocumentID))
			}
			continue
		}
		results = append(results, &models.SearchResult{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Content:    doc.Preview,
			Similarity: 1 - n.Distance,
			UploadDate: doc.UploadedAt,
		})
	}

	if e.logger != nil {
		e.logger.Debug("search completed",
			zap.String("query", req.Query),
			zap.Int("page", req.Page),
			zap.Int("results", len(results)))
	}
	return &models.SearchResponse{Results: results, Page: req.Page, Limit: req.Limit}, nil
}

// ListDocuments returns a page of the catalog ordered by upload time
// descending. No embedding or vector involvement.
func (e *Engine) ListDocuments(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error) {
	req.Validate(e.config.DefaultListLimit, e.config.MaxLimit)
	docs, err := e.catalog.ListDocuments(ctx, req.Offset(), req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &models.ListResponse{Documents: docs, Page: req.Page, Limit: req.Limit}, nil
}
