// Package upload submits file batches to the backend and aggregates the per-file outcomes.
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/telhawk-systems/flowsearch/internal/logging"
	"github.com/telhawk-systems/flowsearch/internal/metrics"
	"github.com/telhawk-systems/flowsearch/internal/model"
)

// ErrEmptySelection is returned before any network call when no files are selected.
var ErrEmptySelection = errors.New("please select at least one file to upload")

// BatchSubmissionError reports that the batch as a whole could not be submitted.
// No per-file outcomes exist in that case.
type BatchSubmissionError struct {
	Message string
}

func (e *BatchSubmissionError) Error() string {
	return e.Message
}

// defaultSubmissionMessage is used when the transport gives no message.
const defaultSubmissionMessage = "Failed to upload files"

// Uploader is the transport collaborator.
type Uploader interface {
	Upload(ctx context.Context, files []model.FileHandle) ([]model.UploadOutcome, error)
}

// Listener is notified after a batch with at least one successful file.
type Listener interface {
	UploadSucceeded(ctx context.Context, batch *BatchResult)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, batch *BatchResult)

func (f ListenerFunc) UploadSucceeded(ctx context.Context, batch *BatchResult) { f(ctx, batch) }

// BatchResult holds one outcome per submitted file, in submission order.
type BatchResult struct {
	Outcomes []model.UploadOutcome
}

// Succeeded returns the successful outcomes, order preserved.
func (b *BatchResult) Succeeded() []model.UploadOutcome {
	return b.filter(true)
}

// Failed returns the failed outcomes, order preserved.
func (b *BatchResult) Failed() []model.UploadOutcome {
	return b.filter(false)
}

// EventsProcessed sums events_count over the successful outcomes.
func (b *BatchResult) EventsProcessed() int {
	total := 0
	for _, o := range b.Succeeded() {
		total += o.EventsCount
	}
	return total
}

// SuccessMessage is the banner shown for a batch with successes, or "".
func (b *BatchResult) SuccessMessage() string {
	ok := b.Succeeded()
	if len(ok) == 0 {
		return ""
	}
	return fmt.Sprintf("Successfully uploaded %d file(s). Total events processed: %d", len(ok), b.EventsProcessed())
}

// FailureMessage is the banner shown for a batch with failures, or "".
func (b *BatchResult) FailureMessage() string {
	failed := b.Failed()
	if len(failed) == 0 {
		return ""
	}
	return fmt.Sprintf("Failed to upload %d file(s). Check details below.", len(failed))
}

func (b *BatchResult) filter(success bool) []model.UploadOutcome {
	out := make([]model.UploadOutcome, 0, len(b.Outcomes))
	for _, o := range b.Outcomes {
		if o.Succeeded() == success {
			out = append(out, o)
		}
	}
	return out
}

// Orchestrator submits file selections. It keeps no state between batches,
// so resubmitting a selection after a failure is an independent attempt.
type Orchestrator struct {
	uploader  Uploader
	listeners []Listener
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewOrchestrator creates an Orchestrator. logger and m may be nil.
func NewOrchestrator(uploader Uploader, logger *logging.Logger, m *metrics.Metrics, listeners ...Listener) *Orchestrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		uploader:  uploader,
		listeners: listeners,
		logger:    logger,
		metrics:   m,
	}
}

// Submit uploads files and returns the per-file outcomes. A partially failed
// batch is a normal result; only a transport failure returns an error.
func (o *Orchestrator) Submit(ctx context.Context, files []model.FileHandle) (*BatchResult, error) {
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}

	outcomes, err := o.uploader.Upload(ctx, files)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = defaultSubmissionMessage
		}
		o.logger.WarnContext(ctx, "batch submission failed",
			logging.Operation("upload"),
			logging.Error(err),
			logging.FieldFiles, len(files),
		)
		return nil, &BatchSubmissionError{Message: msg}
	}

	batch := &BatchResult{Outcomes: outcomes}
	succeeded := batch.Succeeded()
	o.record(batch)

	o.logger.InfoContext(ctx, "batch submitted",
		logging.Operation("upload"),
		logging.FieldFiles, len(files),
		"succeeded", len(succeeded),
		"failed", len(outcomes)-len(succeeded),
		logging.FieldEvents, batch.EventsProcessed(),
	)

	if len(succeeded) > 0 {
		for _, l := range o.listeners {
			l.UploadSucceeded(ctx, batch)
		}
	}
	return batch, nil
}

func (o *Orchestrator) record(batch *BatchResult) {
	if o.metrics == nil {
		return
	}
	for _, out := range batch.Outcomes {
		o.metrics.UploadedFiles.WithLabelValues(out.Status).Inc()
	}
	o.metrics.EventsProcessed.Add(float64(batch.EventsProcessed()))
}
