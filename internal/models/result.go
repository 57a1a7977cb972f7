package models

import "time"

// SearchResult is a single ranked hit joined with its catalog metadata.
// Similarity is 1 - cosine distance: identical vectors score exactly 1.0 and
// maximally dissimilar vectors score -1.0. The linear transform is a wire
// convention and is never clipped into [0,1].
type SearchResult struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
	UploadDate time.Time `json:"uploadDate"`
}

// SearchResponse is the response for a search request, in ranked order.
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// ListResponse is the response for a catalog listing request, newest first.
type ListResponse struct {
	Documents []*Document `json:"documents"`
	Page      int         `json:"page"`
	Limit     int         `json:"limit"`
}
