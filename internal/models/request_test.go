package models

import (
	"errors"
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       *SearchRequest
		wantErr   bool
		wantLimit int
		wantPage  int
	}{
		{"empty query", &SearchRequest{Query: ""}, true, 0, 0},
		{"defaults applied", &SearchRequest{Query: "x"}, false, 10, 1},
		{"limit kept", &SearchRequest{Query: "x", Limit: 25, Page: 3}, false, 25, 3},
		{"limit capped", &SearchRequest{Query: "x", Limit: 500}, false, 100, 1},
		{"negative limit gets default", &SearchRequest{Query: "x", Limit: -5}, false, 10, 1},
		{"negative page clamped", &SearchRequest{Query: "x", Page: -2}, false, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(10, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyQuery) {
					t.Errorf("expected ErrEmptyQuery, got %v", err)
				}
				return
			}
			if tt.req.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", tt.req.Limit, tt.wantLimit)
			}
			if tt.req.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", tt.req.Page, tt.wantPage)
			}
		})
	}
}

func TestSearchRequest_Offset(t *testing.T) {
	req := &SearchRequest{Query: "x", Limit: 10, Page: 2}
	if err := req.Validate(10, 100); err != nil {
		t.Fatal(err)
	}
	if got := req.Offset(); got != 10 {
		t.Errorf("offset = %d, want 10", got)
	}
}

func TestListRequest_Validate(t *testing.T) {
	req := &ListRequest{Limit: 0, Page: 0}
	req.Validate(50, 100)
	if req.Limit != 50 || req.Page != 1 {
		t.Errorf("got limit=%d page=%d, want 50/1", req.Limit, req.Page)
	}

	req = &ListRequest{Limit: 1000, Page: 4}
	req.Validate(50, 100)
	if req.Limit != 100 || req.Page != 4 {
		t.Errorf("got limit=%d page=%d, want 100/4", req.Limit, req.Page)
	}
	if req.Offset() != 300 {
		t.Errorf("offset = %d, want 300", req.Offset())
	}
}
