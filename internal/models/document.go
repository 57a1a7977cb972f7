// Package models defines core data structures for documents, requests, and search results.
package models

import "time"

// Document represents a stored document's catalog metadata. Rows are created
// once per successful extraction and never mutated; re-ingesting the same
// filename creates a new document rather than updating the existing one.
type Document struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	Preview    string    `json:"preview" db:"preview"`
	UploadedAt time.Time `json:"uploadDate" db:"uploaded_at"`
}

// IngestResult is returned after a document has been ingested. A document can
// be ingested successfully even when no embedding was produced; such documents
// appear in listings but never in search results.
type IngestResult struct {
	DocumentID string `json:"documentId"`
	Preview    string `json:"preview"`
}
