package client

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/telhawk-systems/flowsearch/internal/model"
	"github.com/telhawk-systems/flowsearch/internal/query"
)

// Search submits a validated query to POST /search/.
func (c *Client) Search(ctx context.Context, q *query.NormalizedQuery) (*model.SearchResultSet, error) {
	var set model.SearchResultSet
	err := c.do(ctx, OpSearch, http.MethodPost, "/search/", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(q)
	}, &set)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// ListFiles fetches the uploaded-files inventory from GET /files/.
func (c *Client) ListFiles(ctx context.Context) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	if err := c.do(ctx, OpListFiles, http.MethodGet, "/files/", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Health probes GET /health/. Any 2xx answer means the backend is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, OpHealth, http.MethodGet, "/health/", nil, nil)
}
