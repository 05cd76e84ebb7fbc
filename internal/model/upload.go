package model

import "io"

// Upload outcome statuses reported per file by the backend.
const (
	UploadSuccess = "success"
	UploadFailed  = "failed"
)

// UploadOutcome is the backend's verdict on a single uploaded file.
type UploadOutcome struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"`
	EventsCount int    `json:"events_count,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Succeeded reports whether the file was ingested.
func (o UploadOutcome) Succeeded() bool {
	return o.Status == UploadSuccess
}

// UploadedFile describes one entry of the backend's uploaded-files inventory.
type UploadedFile struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	FilePath         string `json:"file_path"`
	UploadDate       string `json:"upload_date"`
	TotalEvents      int    `json:"total_events"`
	ProcessingStatus string `json:"processing_status"`
}

// FileHandle is one file of an upload selection. Open is called once per submission
// and the caller closes the returned reader.
type FileHandle struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}
