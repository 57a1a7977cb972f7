// Package storage defines persistence for the document catalog and vectors.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shirabe/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDimensionMismatch is returned when a vector's dimensionality differs
// from the store's. Dimensionality is uniform across all stored vectors;
// mixing is rejected loudly rather than truncated or padded.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Catalog stores document metadata. Documents are written once and never
// updated; deletion is outside the service's API surface.
type Catalog interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocuments(ctx context.Context, ids []string) (map[string]*models.Document, error)
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// Neighbor is a single nearest-neighbor hit. Distance is cosine distance in
// [0, 2], ascending order means most similar first.
type Neighbor struct {
	DocumentID string
	Distance   float64
}

// VectorStore persists exactly one embedding per document and answers
// distance-ordered nearest-neighbor queries against a probe vector.
type VectorStore interface {
	PutVector(ctx context.Context, documentID string, vec []float32) error
	// NearestNeighbors returns up to limit hits ordered by ascending cosine
	// distance, after skipping offset hits of the full ranked set.
	NearestNeighbors(ctx context.Context, probe []float32, limit, offset int) ([]*Neighbor, error)
	CountVectors(ctx context.Context) (int64, error)
}

// Store combines the catalog and vector store behind one connection resource,
// opened at startup and released at shutdown.
type Store interface {
	Catalog
	VectorStore
	Close() error
}
