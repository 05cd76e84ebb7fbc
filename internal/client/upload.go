package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/telhawk-systems/flowsearch/internal/model"
)

// uploadResponse is the body of a successful POST /upload/.
type uploadResponse struct {
	Message string                `json:"message"`
	Results []model.UploadOutcome `json:"results"`
}

// Upload sends files as one multipart request, repeating the "files" field
// once per file, and returns the per-file outcomes in submission order.
func (c *Client) Upload(ctx context.Context, files []model.FileHandle) ([]model.UploadOutcome, error) {
	fields := make([]*resty.MultipartField, 0, len(files))
	closers := make([]io.Closer, 0, len(files))
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()

	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, newError(OpUpload, 0, fmt.Sprintf("Failed to read file %s", f.Name), err)
		}
		closers = append(closers, rc)
		fields = append(fields, &resty.MultipartField{
			Param:       "files",
			FileName:    f.Name,
			ContentType: "application/octet-stream",
			Reader:      rc,
		})
	}

	var resp uploadResponse
	err := c.do(ctx, OpUpload, http.MethodPost, "/upload/", func(r *resty.Request) {
		r.SetMultipartFields(fields...)
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
