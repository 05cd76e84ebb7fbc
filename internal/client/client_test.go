package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/flowsearch/internal/metrics"
	"github.com/telhawk-systems/flowsearch/internal/model"
	"github.com/telhawk-systems/flowsearch/internal/query"
)

const testBaseURL = "http://backend.test/api"

// newMockedClient returns a client whose transport is replaced by httpmock.
func newMockedClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c := New(testBaseURL, opts...)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func fileHandle(name, content string) model.FileHandle {
	return model.FileHandle{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestNew(t *testing.T) {
	c := New(testBaseURL, WithTimeout(5*time.Second))

	assert.Equal(t, testBaseURL, c.BaseURL())
	assert.NotNil(t, c.HTTPClient())
	assert.Equal(t, 5*time.Second, c.HTTPClient().Timeout)
}

func TestSearch_Success(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/search/",
		func(req *http.Request) (*http.Response, error) {
			assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
			assert.Contains(t, req.Header.Get("Content-Type"), "application/json")

			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			assert.Equal(t, map[string]interface{}{
				"srcaddr":    "10.0.0.1",
				"start_time": float64(100),
				"end_time":   float64(200),
			}, payload)

			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"events": []map[string]interface{}{
					{
						"id": 7, "serialno": 2, "version": 2, "account_id": "348935949",
						"instance_id": "eni-293216456", "srcaddr": "10.0.0.1", "dstaddr": "10.0.0.2",
						"srcport": 152, "dstport": 443, "protocol": 6, "packets": 10, "bytes": 840,
						"starttime": 150, "endtime": 160, "action": "ACCEPT", "log_status": "OK",
						"source_file": "flows.log",
					},
				},
				"total_count":    1,
				"search_time":    0.012,
				"files_searched": []string{"flows.log"},
			})
		})

	q, err := query.Validate(query.Criteria{
		query.FieldSrcAddr:   "10.0.0.1",
		query.FieldStartTime: "100",
		query.FieldEndTime:   "200",
	})
	require.NoError(t, err)

	set, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, set.Events, 1)
	assert.Equal(t, 1, set.TotalCount)
	assert.Equal(t, 0.012, set.SearchTime)
	assert.Equal(t, []string{"flows.log"}, set.FilesSearched)
	assert.Equal(t, "10.0.0.2", set.Events[0].DstAddr)
	assert.Equal(t, json.Number("150"), set.Events[0].StartTime)
	assert.Equal(t, 6, set.Events[0].Protocol)
}

func TestSearch_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    interface{}
		message string
	}{
		{
			name:    "error field",
			status:  http.StatusInternalServerError,
			body:    map[string]string{"error": "database unavailable"},
			message: "database unavailable",
		},
		{
			name:    "validation map",
			status:  http.StatusBadRequest,
			body:    map[string][]string{"time_range": {"Start time must be before end time"}},
			message: "time_range: Start time must be before end time",
		},
		{
			name:    "non field errors",
			status:  http.StatusBadRequest,
			body:    map[string][]string{"non_field_errors": {"Invalid input."}},
			message: "Invalid input.",
		},
		{
			name:    "no usable body",
			status:  http.StatusBadGateway,
			body:    []string{},
			message: "Failed to search events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMockedClient(t)
			httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/search/",
				httpmock.NewJsonResponderOrPanic(tt.status, tt.body))

			set, err := c.Search(context.Background(), &query.NormalizedQuery{StartTime: 1, EndTime: 2, Action: "ACCEPT"})
			assert.Nil(t, set)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.message, apiErr.Error())
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, OpSearch, apiErr.Op)
		})
	}
}

func TestSearch_NetworkError(t *testing.T) {
	m := metrics.New()
	c := newMockedClient(t, WithMetrics(m))
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/search/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.Search(context.Background(), &query.NormalizedQuery{StartTime: 1, EndTime: 2, Action: "ACCEPT"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to search events", apiErr.Message)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotContains(t, apiErr.Error(), "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(OpSearch, metrics.OutcomeError)))
}

func TestSearch_MalformedPayload(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/search/",
		httpmock.NewStringResponder(http.StatusOK, "<html>not json</html>"))

	_, err := c.Search(context.Background(), &query.NormalizedQuery{StartTime: 1, EndTime: 2, Action: "ACCEPT"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to search events", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestUpload_Success(t *testing.T) {
	m := metrics.New()
	c := newMockedClient(t, WithMetrics(m))

	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/upload/",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			files := req.MultipartForm.File["files"]
			require.Len(t, files, 2)
			assert.Equal(t, "a.log", files[0].Filename)
			assert.Equal(t, "b.log", files[1].Filename)

			f, err := files[0].Open()
			require.NoError(t, err)
			defer f.Close()
			content, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, "1|2|3", string(content))

			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"message": "Processed 2 files",
				"results": []map[string]interface{}{
					{"filename": "a.log", "status": "success", "events_count": 10},
					{"filename": "b.log", "status": "failed", "error": "Error parsing file b.log: bad row"},
				},
			})
		})

	outcomes, err := c.Upload(context.Background(), []model.FileHandle{
		fileHandle("a.log", "1|2|3"),
		fileHandle("b.log", "garbage"),
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Succeeded())
	assert.Equal(t, 10, outcomes[0].EventsCount)
	assert.False(t, outcomes[1].Succeeded())
	assert.Equal(t, "Error parsing file b.log: bad row", outcomes[1].Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(OpUpload, metrics.OutcomeOK)))
}

func TestUpload_BackendError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/upload/",
		httpmock.NewJsonResponderOrPanic(http.StatusBadRequest, map[string]string{"error": "No files uploaded"}))

	outcomes, err := c.Upload(context.Background(), []model.FileHandle{fileHandle("a.log", "x")})
	assert.Nil(t, outcomes)
	assert.EqualError(t, err, "No files uploaded")
}

func TestUpload_OpenFailure(t *testing.T) {
	c := newMockedClient(t)

	broken := model.FileHandle{
		Name: "gone.log",
		Open: func() (io.ReadCloser, error) { return nil, errors.New("permission denied") },
	}
	_, err := c.Upload(context.Background(), []model.FileHandle{broken})

	assert.EqualError(t, err, "Failed to read file gone.log")
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestListFiles(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/files/",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, []map[string]interface{}{
			{
				"id": 1, "filename": "a.log", "file_path": "uploads/a.log",
				"upload_date": "2024-09-09T10:00:00Z", "total_events": 10,
				"processing_status": "completed",
			},
		}))

	files, err := c.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.log", files[0].Filename)
	assert.Equal(t, 10, files[0].TotalEvents)
	assert.Equal(t, "completed", files[0].ProcessingStatus)
}

func TestListFiles_Error(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/files/",
		httpmock.NewStringResponder(http.StatusInternalServerError, "oops"))

	_, err := c.ListFiles(context.Background())
	assert.EqualError(t, err, "Failed to get uploaded files")
}

func TestHealth(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/health/",
		httpmock.NewStringResponder(http.StatusOK, "anything"))
	assert.NoError(t, c.Health(context.Background()))

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/health/",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"error":"down for maintenance"}`))
	assert.EqualError(t, c.Health(context.Background()), "down for maintenance")

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/health/",
		httpmock.NewErrorResponder(errors.New("dial tcp: no route to host")))
	assert.EqualError(t, c.Health(context.Background()), "Backend is not available")
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Failed to upload files", translate(OpUpload, nil))
	assert.Equal(t, "Failed to upload files", translate(OpUpload, []byte(`{"error": "  "}`)))
	assert.Equal(t, "Not found.", translate(OpListFiles, []byte(`{"detail": "Not found."}`)))
	assert.Equal(t,
		"search_criteria: At least one search parameter must be provided",
		translate(OpSearch, []byte(`{"search_criteria": {"x": ["At least one search parameter must be provided"]}, "z": []}`)))
	assert.Equal(t, "Backend request failed", translate("other", []byte(`[]`)))
}
