// Package storage provides the SQLite implementation of the Store interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shirabe/internal/models"
)

// SQLiteStore implements Store using a single SQLite database for both the
// document catalog and the vector store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		preview TEXT NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at);

	CREATE TABLE IF NOT EXISTS document_vectors (
		document_id TEXT PRIMARY KEY,
		dim INTEGER NOT NULL,
		embedding BLOB NOT NULL,
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateDocument inserts a catalog row. UploadedAt is set to now.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	doc.UploadedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, preview, uploaded_at) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.Preview, doc.UploadedAt,
	)
	return err
}

// GetDocument returns a document by ID, or ErrNotFound.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, preview, uploaded_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.Preview, &doc.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocuments returns the documents for the given IDs keyed by ID.
// IDs with no catalog row are simply absent from the result.
func (s *SQLiteStore) GetDocuments(ctx context.Context, ids []string) (map[string]*models.Document, error) {
	if len(ids) == 0 {
		return map[string]*models.Document{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, preview, uploaded_at FROM documents WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make(map[string]*models.Document, len(ids))
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Preview, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs[doc.ID] = &doc
	}
	return docs, rows.Err()
}

// ListDocuments returns documents ordered by upload time descending (newest
// first), with rowid as a tiebreak so insert order holds for equal timestamps.
func (s *SQLiteStore) ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, preview, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Preview, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// PutVector stores the embedding for a document. The first stored vector
// fixes the store's dimensionality; later writes with a different length
// fail with ErrDimensionMismatch.
func (s *SQLiteStore) PutVector(ctx context.Context, documentID string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("cannot store an empty vector for %s", documentID)
	}
	dim, err := s.storedDimension(ctx)
	if err != nil {
		return err
	}
	if dim > 0 && dim != len(vec) {
		return fmt.Errorf("%w: got %d, store has %d", ErrDimensionMismatch, len(vec), dim)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO document_vectors (document_id, dim, embedding) VALUES (?, ?, ?)`,
		documentID, len(vec), encodeVector(vec),
	)
	return err
}

// NearestNeighbors scans all stored vectors and returns up to limit hits
// ordered by ascending cosine distance after skipping offset of the full
// ranked set. The probe's dimensionality must match the store's.
func (s *SQLiteStore) NearestNeighbors(ctx context.Context, probe []float32, limit, offset int) ([]*Neighbor, error) {
	if len(probe) == 0 {
		return nil, fmt.Errorf("probe vector is empty")
	}
	dim, err := s.storedDimension(ctx)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return []*Neighbor{}, nil
	}
	if dim != len(probe) {
		return nil, fmt.Errorf("%w: probe has %d, store has %d", ErrDimensionMismatch, len(probe), dim)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT document_id, embedding FROM document_vectors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*Neighbor
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		ranked = append(ranked, &Neighbor{
			DocumentID: id,
			Distance:   cosineDistance(probe, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Pagination is applied post-ranking over the full set, so page 2 with
	// limit 10 is ranks 11-20, never a re-ranked subset.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance < ranked[j].Distance
		}
		return ranked[i].DocumentID < ranked[j].DocumentID
	})
	if offset >= len(ranked) {
		return []*Neighbor{}, nil
	}
	ranked = ranked[offset:]
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// CountVectors returns the total number of stored vectors.
func (s *SQLiteStore) CountVectors(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_vectors`).Scan(&count)
	return count, err
}

// storedDimension returns the dimensionality of stored vectors, or 0 when the
// store is empty. All rows share one dim, so any row answers.
func (s *SQLiteStore) storedDimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT dim FROM document_vectors LIMIT 1`).Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dim, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
