// Package liveness tracks whether the backend is reachable.
package liveness

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/telhawk-systems/flowsearch/internal/logging"
)

// Status is the tri-state liveness of the backend.
type Status string

const (
	StatusChecking Status = "checking"
	StatusHealthy  Status = "healthy"
	StatusError    Status = "error"
)

// Prober performs a single health probe. A nil error means the backend answered 2xx.
type Prober interface {
	Health(ctx context.Context) error
}

// Report describes the outcome of the most recent applied probe.
type Report struct {
	Status    Status    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// ErrInvalidInterval is returned by Watch for a non-positive interval.
var ErrInvalidInterval = errors.New("watch interval must be positive")

// Monitor holds the backend liveness status. Probes may overlap; the result
// of the most recently issued probe wins regardless of completion order.
type Monitor struct {
	prober Prober
	logger *logging.Logger

	mu      sync.Mutex
	issued  uint64
	applied uint64
	report  Report
}

// NewMonitor creates a Monitor in the checking state.
func NewMonitor(prober Prober, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Monitor{
		prober: prober,
		logger: logger,
		report: Report{Status: StatusChecking},
	}
}

// Status returns the current status.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report.Status
}

// Report returns the current report.
func (m *Monitor) Report() Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report
}

// Check probes the backend once and returns the status that probe observed.
// The stored status is only replaced if no newer probe has been applied.
func (m *Monitor) Check(ctx context.Context) Status {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	m.mu.Unlock()

	start := time.Now()
	err := m.prober.Health(ctx)
	r := Report{
		Status:    StatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
		CheckedAt: time.Now(),
	}
	if err != nil {
		r.Status = StatusError
		r.Error = err.Error()
	}

	m.mu.Lock()
	if seq > m.applied {
		m.applied = seq
		m.report = r
	}
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "liveness probe",
		"status", string(r.Status),
		logging.Duration(r.LatencyMS),
	)
	return r.Status
}

// Watch probes immediately and then every interval until ctx is done.
// onReport, if non-nil, receives the stored report after each probe.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, onReport func(Report)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.Check(ctx)
		if onReport != nil {
			onReport(m.Report())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
