// Package session holds the shared state of one flowsearch presentation
// context: the current result set, the last upload batch, the uploaded-files
// inventory and the backend liveness status.
package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/telhawk-systems/flowsearch/internal/liveness"
	"github.com/telhawk-systems/flowsearch/internal/logging"
	"github.com/telhawk-systems/flowsearch/internal/metrics"
	"github.com/telhawk-systems/flowsearch/internal/model"
	"github.com/telhawk-systems/flowsearch/internal/query"
	"github.com/telhawk-systems/flowsearch/internal/results"
	"github.com/telhawk-systems/flowsearch/internal/upload"
)

// ErrSuperseded is returned when a response arrived after a newer request of
// the same kind was issued. The response was not applied.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Backend is everything the session needs from the transport.
type Backend interface {
	upload.Uploader
	liveness.Prober
	Search(ctx context.Context, q *query.NormalizedQuery) (*model.SearchResultSet, error)
	ListFiles(ctx context.Context) ([]model.UploadedFile, error)
}

// Request kinds for generation tracking and metrics.
const (
	kindSearch    = "search"
	kindUpload    = "upload"
	kindInventory = "list_files"
)

// Session is safe for concurrent use.
type Session struct {
	backend      Backend
	orchestrator *upload.Orchestrator
	monitor      *liveness.Monitor
	logger       *logging.Logger
	metrics      *metrics.Metrics

	mu  sync.Mutex
	gen map[string]uint64

	results   *model.SearchResultSet
	searchErr error
	pager     *results.Pager

	lastBatch *upload.BatchResult
	uploadErr error

	inventory    []model.UploadedFile
	inventoryErr error
}

// New creates a Session. logger and m may be nil.
func New(backend Backend, logger *logging.Logger, m *metrics.Metrics) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Session{
		backend: backend,
		monitor: liveness.NewMonitor(backend, logger),
		logger:  logger,
		metrics: m,
		gen:     make(map[string]uint64),
		pager:   results.NewPager(0),
	}
	s.orchestrator = upload.NewOrchestrator(backend, logger, m, s)
	return s
}

// Start performs the initial liveness probe and inventory fetch concurrently.
// The returned error is the inventory error, if any; liveness is read via Liveness.
func (s *Session) Start(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		s.monitor.Check(ctx)
		return nil
	})
	g.Go(func() error {
		return s.RefreshInventory(ctx)
	})
	return g.Wait()
}

// Liveness returns the backend liveness monitor.
func (s *Session) Liveness() *liveness.Monitor {
	return s.monitor
}

// Search validates c and, when valid, runs the search. On failure the prior
// result set is kept and the error is recorded as the search error.
func (s *Session) Search(ctx context.Context, c query.Criteria) (*model.SearchResultSet, error) {
	gen := s.begin(kindSearch)
	q, err := query.Validate(c)
	if err != nil {
		s.recordValidation(err)
		s.mu.Lock()
		s.searchErr = err
		s.mu.Unlock()
		return nil, err
	}

	set, err := s.backend.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(kindSearch, gen) {
		s.stale(ctx, kindSearch)
		return nil, ErrSuperseded
	}
	if err != nil {
		s.searchErr = err
		return nil, err
	}
	s.searchErr = nil
	s.results = set
	s.pager = results.NewPager(len(set.Events))
	return set, nil
}

// Upload submits files through the upload orchestrator.
func (s *Session) Upload(ctx context.Context, files []model.FileHandle) (*upload.BatchResult, error) {
	gen := s.begin(kindUpload)
	batch, err := s.orchestrator.Submit(ctx, files)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(kindUpload, gen) {
		s.stale(ctx, kindUpload)
		return nil, ErrSuperseded
	}
	s.lastBatch = batch
	s.uploadErr = err
	return batch, err
}

// UploadSucceeded discards the current result set, drops any search still in
// flight and refreshes the inventory. It is called by the orchestrator after a
// batch with at least one success.
func (s *Session) UploadSucceeded(ctx context.Context, _ *upload.BatchResult) {
	s.mu.Lock()
	s.gen[kindSearch]++
	s.results = nil
	s.searchErr = nil
	s.pager = results.NewPager(0)
	s.mu.Unlock()

	if err := s.RefreshInventory(ctx); err != nil {
		s.logger.WarnContext(ctx, "inventory refresh after upload failed", logging.Error(err))
	}
}

// RefreshInventory re-fetches the uploaded-files inventory. On failure the
// prior inventory is kept.
func (s *Session) RefreshInventory(ctx context.Context) error {
	gen := s.begin(kindInventory)
	files, err := s.backend.ListFiles(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(kindInventory, gen) {
		s.stale(ctx, kindInventory)
		return ErrSuperseded
	}
	s.inventoryErr = err
	if err != nil {
		return err
	}
	s.inventory = files
	return nil
}

// Results returns the current result set, or nil.
func (s *Session) Results() *model.SearchResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// SearchError returns the error of the last search, if it failed.
func (s *Session) SearchError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchErr
}

// LastBatch returns the last applied upload batch and its error.
func (s *Session) LastBatch() (*upload.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBatch, s.uploadErr
}

// Inventory returns the uploaded-files inventory and the last fetch error.
func (s *Session) Inventory() ([]model.UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory, s.inventoryErr
}

// Page returns the current page number.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Current
}

// Navigate applies fn to the pager and reports whether the page changed.
func (s *Session) Navigate(fn func(*results.Pager) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.pager)
}

// View renders the current result set at the current page.
func (s *Session) View() results.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return results.Render(s.results, s.pager)
}

func (s *Session) begin(kind string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[kind]++
	return s.gen[kind]
}

// current must be called with mu held.
func (s *Session) current(kind string, gen uint64) bool {
	return s.gen[kind] == gen
}

func (s *Session) stale(ctx context.Context, kind string) {
	s.logger.InfoContext(ctx, "dropping superseded response", logging.Operation(kind))
	if s.metrics != nil {
		s.metrics.StaleResponses.WithLabelValues(kind).Inc()
	}
}

func (s *Session) recordValidation(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ValidationFailures.WithLabelValues(validationReason(err)).Inc()
}

func validationReason(err error) string {
	switch {
	case errors.Is(err, query.ErrMissingTimeWindow):
		return "missing_time_window"
	case errors.Is(err, query.ErrInvalidNumber):
		return "invalid_number"
	case errors.Is(err, query.ErrInvertedTimeWindow):
		return "inverted_time_window"
	case errors.Is(err, query.ErrNoFilterSelected):
		return "no_filter"
	default:
		return "other"
	}
}
