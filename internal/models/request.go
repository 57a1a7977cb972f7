package models

import "errors"

// ErrEmptyQuery is returned when a search request has no query text.
var ErrEmptyQuery = errors.New("query cannot be empty")

// SearchRequest represents a semantic search request.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	Page  int    `json:"page,omitempty"`
}

// Validate rejects an empty query and clamps limit and page. Limit is clamped
// to [1, maxLimit] with defaultLimit applied when unset; page below 1 becomes 1.
func (r *SearchRequest) Validate(defaultLimit, maxLimit int) error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	r.Limit = clampLimit(r.Limit, defaultLimit, maxLimit)
	if r.Page < 1 {
		r.Page = 1
	}
	return nil
}

// Offset returns the number of ranked results to skip: page 2 with limit 10
// returns ranks 11-20 of the full ranked set.
func (r *SearchRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ListRequest represents a catalog listing request.
type ListRequest struct {
	Limit int
	Page  int
}

// Validate clamps limit and page the same way SearchRequest does.
func (r *ListRequest) Validate(defaultLimit, maxLimit int) {
	r.Limit = clampLimit(r.Limit, defaultLimit, maxLimit)
	if r.Page < 1 {
		r.Page = 1
	}
}

// Offset returns the catalog offset for the requested page.
func (r *ListRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// ProcessRequest asks the server to ingest a previously uploaded file.
type ProcessRequest struct {
	Filename string `json:"filename"`
}

// DownloadRequest resolves an uploaded file by its URL.
type DownloadRequest struct {
	FileURL string `json:"fileUrl"`
}
