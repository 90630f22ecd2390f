package ports

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
)

// Request describes one call to the upstream society API. Path is relative
// to the configured base URL. Body is JSON-encoded unless Form is set.
// Route is a low-cardinality label for metrics, e.g. "amenities/:id".
//
// BestEffort marks a call whose failure the caller absorbs, such as one
// building of an aggregation. Its outcome is not counted by the upstream
// circuit breaker.
type Request struct {
	Method     string
	Path       string
	Route      string
	Query      url.Values
	Body       any
	Form       *MultipartForm
	BestEffort bool
}

type MultipartForm struct {
	Fields map[string]string
	Files  []FormFile
}

type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// APIClient issues authenticated REST calls and returns the raw response body.
type APIClient interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}
